package persistence

import (
	"context"

	"github.com/dfryer1193/apodwall/wallpaper/domain"
	"github.com/shirou/gopsutil/v3/disk"
)

type freeSpaceFunc func(ctx context.Context, dir string) (uint64, error)

func diskFree(ctx context.Context, dir string) (uint64, error) {
	usage, err := disk.UsageWithContext(ctx, dir)
	if err != nil {
		return 0, err
	}
	return usage.Free, nil
}

// ensureFreeSpace fails when the filesystem holding dir cannot fit need bytes.
func ensureFreeSpace(ctx context.Context, free freeSpaceFunc, dir string, need int64) error {
	if free == nil {
		return nil
	}

	available, err := free(ctx, dir)
	if err != nil {
		return domain.NewError(domain.KindStoreUnavailable, "checking free space", err)
	}

	if need > 0 && uint64(need) > available {
		return domain.Errorf(domain.KindStoreUnavailable, "checking free space",
			"%s has %d bytes free, image needs %d", dir, available, need)
	}

	return nil
}
