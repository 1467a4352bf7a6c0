package application

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dfryer1193/apodwall/wallpaper/domain"
	"github.com/robfig/cron/v3"
)

// Args is the validated command line of a run
type Args struct {
	Dir         string
	Date        string
	PreferHD    bool
	NoWallpaper bool
	Schedule    string
}

// ParseArgs validates the command line without side effects beyond reading
// the filesystem. Every failure is of kind KindInvalidArgument.
//
// Usage: apod [flags] <dir> [YYYY-MM-DD]
func ParseArgs(fs *flag.FlagSet, args []string, now time.Time) (Args, error) {
	const op = "parsing arguments"

	var a Args
	fs.BoolVar(&a.PreferHD, "hd", false, "download the high resolution image when one is published")
	fs.BoolVar(&a.NoWallpaper, "no-wallpaper", false, "store the image without changing the desktop background")
	fs.StringVar(&a.Schedule, "schedule", "", "cron expression; run for the current day on this schedule instead of once")
	if err := fs.Parse(args); err != nil {
		return Args{}, domain.NewError(domain.KindInvalidArgument, op, err)
	}

	positional := fs.Args()
	if len(positional) < 1 || len(positional) > 2 {
		return Args{}, domain.Errorf(domain.KindInvalidArgument, op, "expected <dir> [YYYY-MM-DD], got %d arguments", len(positional))
	}

	dir, err := ValidateDir(positional[0])
	if err != nil {
		return Args{}, err
	}
	a.Dir = dir

	a.Date = now.Format(domain.DateLayout)
	if len(positional) == 2 {
		if err := ValidateDate(positional[1], now); err != nil {
			return Args{}, err
		}
		a.Date = positional[1]
	}

	if a.Schedule != "" {
		if err := ValidateSchedule(a.Schedule); err != nil {
			return Args{}, err
		}
	}

	return a, nil
}

// ValidateDir checks that dir exists and is a directory, and returns its absolute form.
func ValidateDir(dir string) (string, error) {
	const op = "validating directory"

	if dir == "" {
		return "", domain.Errorf(domain.KindInvalidArgument, op, "directory cannot be empty")
	}

	info, err := os.Stat(dir)
	if err != nil {
		return "", domain.NewError(domain.KindInvalidArgument, op, err)
	}
	if !info.IsDir() {
		return "", domain.Errorf(domain.KindInvalidArgument, op, "%s is not a directory", dir)
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", domain.NewError(domain.KindInvalidArgument, op, err)
	}
	return abs, nil
}

// ValidateDate checks that date is a real YYYY-MM-DD day on which a picture can exist.
func ValidateDate(date string, now time.Time) error {
	const op = "validating date"

	day, err := time.Parse(domain.DateLayout, date)
	if err != nil {
		return domain.NewError(domain.KindInvalidArgument, op, fmt.Errorf("date must be YYYY-MM-DD: %w", err))
	}

	if day.Before(domain.FirstPictureDate) {
		return domain.Errorf(domain.KindInvalidArgument, op, "%s is before the first picture on %s",
			date, domain.FirstPictureDate.Format(domain.DateLayout))
	}

	// Fixed-width layout; lexical order is date order.
	if today := now.Format(domain.DateLayout); date > today {
		return domain.Errorf(domain.KindInvalidArgument, op, "%s is in the future (today is %s)", date, today)
	}

	return nil
}

// ValidateSchedule checks a standard five field cron expression or descriptor.
func ValidateSchedule(spec string) error {
	if _, err := cron.ParseStandard(spec); err != nil {
		return domain.NewError(domain.KindInvalidArgument, "validating schedule", err)
	}
	return nil
}
