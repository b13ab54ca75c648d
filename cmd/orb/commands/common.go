package commands

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/telnet2/orb-sdk-go"
	"github.com/telnet2/orb-sdk-go/option"
	"github.com/telnet2/orb-sdk-go/packages/pagination"
)

// listFlags are the paging flags of every list command.
type listFlags struct {
	limit  int64
	cursor string
	all    bool
}

func (f *listFlags) register(cmd *cobra.Command) {
	cmd.Flags().Int64Var(&f.limit, "limit", 0, "Page size")
	cmd.Flags().StringVar(&f.cursor, "cursor", "", "Cursor of the page to fetch")
	cmd.Flags().BoolVar(&f.all, "all", false, "Fetch every page")
}

func (f *listFlags) apply(p *orb.PageParams) {
	if f.limit > 0 {
		p.SetLimit(f.limit)
	}
	if f.cursor != "" {
		p.SetCursor(f.cursor)
	}
}

// unknownReporter is implemented by union values.
type unknownReporter interface {
	IsUnknown() bool
	Tag() string
}

// printList prints one page, or with all every item of every page.
func printList[T any](a *app, all bool, page *pagination.Page[T], err error) error {
	if !all {
		if err != nil {
			return err
		}
		items, err := page.Data()
		if err != nil {
			return err
		}
		warnUnknown(a, items)
		return a.out.print(page)
	}

	pager := pagination.NewPageAutoPager(page, err)
	items := []T{}
	for pager.Next() {
		items = append(items, pager.Current())
	}
	if err := pager.Err(); err != nil {
		return err
	}
	warnUnknown(a, items)
	return a.out.print(items)
}

func warnUnknown[T any](a *app, items []T) {
	for i, item := range items {
		if u, ok := any(item).(unknownReporter); ok && u.IsUnknown() {
			a.out.warn("item %d has type %q, which this version of orb does not know", i, u.Tag())
		}
	}
}

// dataOptions turns -d arguments into body patches. key=value sets a string,
// key:=json sets any JSON value. Keys are sjson paths.
func dataOptions(pairs []string) ([]option.RequestOption, error) {
	opts := make([]option.RequestOption, 0, len(pairs))
	for _, pair := range pairs {
		if key, raw, ok := strings.Cut(pair, ":="); ok {
			var v any
			if err := json.Unmarshal([]byte(raw), &v); err != nil {
				return nil, fmt.Errorf("-d %s: invalid JSON: %w", pair, err)
			}
			opts = append(opts, option.WithJSONSet(key, v))
			continue
		}
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("-d %s: expected key=value or key:=json", pair)
		}
		opts = append(opts, option.WithJSONSet(key, value))
	}
	return opts, nil
}

// parseTime accepts RFC 3339 timestamps and plain dates.
func parseTime(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time %q: use RFC 3339 or YYYY-MM-DD", s)
	}
	return t, nil
}
