package domain

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	ErrEmptyLeadTime   = errors.New("empty lead time")
	ErrInvalidLeadTime = errors.New("invalid lead time")
	ErrLeadTooSmall    = errors.New("lead time too small")
	ErrLeadTooLarge    = errors.New("lead time too large")
)

var (
	daysRe    = regexp.MustCompile(`(?i)(\d+)\s*d`)
	hoursRe   = regexp.MustCompile(`(?i)(\d+)\s*h`)
	minutesRe = regexp.MustCompile(`(?i)(\d+)\s*m`)
)

// ParseLeadTime parses human-friendly lead times like "30m", "2h", "1h30m",
// "1d" or a plain number of minutes. Bounds: 5 minutes to 31 days.
func ParseLeadTime(s string) (int64, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" {
		return 0, ErrEmptyLeadTime
	}

	var total time.Duration
	if isAllDigits(s) {
		mins, _ := strconv.Atoi(s)
		total = time.Duration(mins) * time.Minute
	} else {
		if md := daysRe.FindStringSubmatch(s); len(md) == 2 {
			d, _ := strconv.Atoi(md[1])
			total += time.Duration(d) * 24 * time.Hour
		}
		if mh := hoursRe.FindStringSubmatch(s); len(mh) == 2 {
			h, _ := strconv.Atoi(mh[1])
			total += time.Duration(h) * time.Hour
		}
		if mm := minutesRe.FindStringSubmatch(s); len(mm) == 2 {
			m, _ := strconv.Atoi(mm[1])
			total += time.Duration(m) * time.Minute
		}
		if total == 0 {
			return 0, fmt.Errorf("%w: %s", ErrInvalidLeadTime, s)
		}
	}

	if total < 5*time.Minute {
		return 0, fmt.Errorf("%w: min 5m", ErrLeadTooSmall)
	}
	if total > 31*24*time.Hour {
		return 0, fmt.Errorf("%w: max 31d", ErrLeadTooLarge)
	}
	return int64(total / time.Minute), nil
}

func isAllDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}
