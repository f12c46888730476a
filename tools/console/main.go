package main

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/asdine/storm/v3"
	"github.com/mdouchement/impulsestop/internal/database"
	"github.com/mdouchement/impulsestop/internal/model"
	"github.com/mdouchement/impulsestop/pkg/stormsql"
	"github.com/mdouchement/impulsestop/pkg/structs"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// go run tools/console/main.go impulsestop.db " SELECT count(*) FROM items WHERE UserID = 'sample9999' AND UpdatedAt > '2026-02-16 20:52:55';  "

func main() {
	c := &cobra.Command{
		Use:   "console",
		Short: "SQL console for impulsestop database",
		Args:  cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			//
			//
			sc, err := stormsql.ParseSelect(args[1])
			if err != nil {
				return err
			}

			//
			//
			fmt.Println("Opening", args[0])
			db, err := storm.Open(args[0], database.StormCodec)
			if err != nil {
				return errors.Wrap(err, "could not open database")
			}
			defer db.Close()

			//
			// Prepare request
			//

			query := db.Select(sc.Matcher)
			if sc.Skip > 0 {
				query.Skip(sc.Skip)
			}
			if sc.Limit > 0 {
				query.Limit(sc.Limit)
			}
			if len(sc.OrderBy) > 0 {
				query.OrderBy(sc.OrderBy...)
				if sc.OrderByReversed {
					query.Reverse()
				}
			}

			// Execute

			if sc.Count {
				return count(sc, query)
			}

			return list(sc, query)
		},
	}

	if err := c.Execute(); err != nil {
		log.Fatalf("%+v", err)
	}
}

func count(sc *stormsql.SelectClause, query storm.Query) error {
	record, err := recordFor(sc.Tablename)
	if err != nil {
		return err
	}

	n, err := query.Count(record)
	if err != nil {
		return errors.Wrap(err, "could not perform query")
	}

	fmt.Println("Count:", n)

	return nil
}

func list(sc *stormsql.SelectClause, query storm.Query) error {
	records, err := recordsFor(sc.Tablename)
	if err != nil {
		return err
	}

	err = query.Find(records)
	if err == storm.ErrNotFound {
		fmt.Println("[]")
		return nil
	}

	if err != nil {
		return errors.Wrap(err, "could not perform query")
	}

	jsondump(project(records, sc.SelectedFields))

	return nil
}

func recordFor(tablename string) (any, error) {
	switch tablename {
	case "users":
		return &model.User{}, nil
	case "items":
		return &model.Item{}, nil
	case "priorities":
		return &model.Priority{}, nil
	case "sessions":
		return &model.Session{}, nil
	case "tombstones":
		return &model.Tombstone{}, nil
	}
	return nil, errors.Errorf("unknown tablename: %s", tablename)
}

func recordsFor(tablename string) (any, error) {
	switch tablename {
	case "users":
		return &[]*model.User{}, nil
	case "items":
		return &[]*model.Item{}, nil
	case "priorities":
		return &[]*model.Priority{}, nil
	case "sessions":
		return &[]*model.Session{}, nil
	case "tombstones":
		return &[]*model.Tombstone{}, nil
	}
	return nil, errors.Errorf("unknown tablename: %s", tablename)
}

// project keeps only the selected columns of each record.
func project(records any, fields []string) any {
	if len(fields) == 0 {
		return records
	}

	rows := make([]map[string]any, 0)
	appendrow := func(record any) {
		rows = append(rows, structs.Project(record, fields...))
	}

	switch records := records.(type) {
	case *[]*model.User:
		for _, record := range *records {
			appendrow(record)
		}
	case *[]*model.Item:
		for _, record := range *records {
			appendrow(record)
		}
	case *[]*model.Priority:
		for _, record := range *records {
			appendrow(record)
		}
	case *[]*model.Session:
		for _, record := range *records {
			appendrow(record)
		}
	case *[]*model.Tombstone:
		for _, record := range *records {
			appendrow(record)
		}
	}

	return rows
}

func jsondump(v any) {
	d, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		panic(err)
	}
	fmt.Println(string(d))
}
