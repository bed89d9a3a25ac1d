// Package tableconfig loads row and column definitions
// of a rowtable.Registry from YAML files.
//
// Example:
//
//	name: people
//	defaultColumns: [Name, Age]
//	multiTemplateDataRows: false
//	columns:
//	  - name: Name
//	    pin: start
//	  - name: Age
//	    header: Age (years)
//	rows:
//	  - kind: header
//	    pin: start
//	  - name: adult
//	    kind: data
//	    when: adult
//	  - name: other
//	    kind: data
//	  - kind: nodata
//	    template: No people
package tableconfig

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	fs "github.com/ungerik/go-fs"
	"gopkg.in/yaml.v3"

	rowtable "github.com/domonda/go-rowtable"
)

// Config describes the columns and rows of a table.
type Config struct {
	Name                  string   `yaml:"name,omitempty"`
	Columns               []Column `yaml:"columns"`
	DefaultColumns        []string `yaml:"defaultColumns,omitempty"`
	Rows                  []Row    `yaml:"rows"`
	MultiTemplateDataRows bool     `yaml:"multiTemplateDataRows,omitempty"`
}

// Column describes a rowtable.ColumnDef.
type Column struct {
	Name   string  `yaml:"name"`
	Header string  `yaml:"header,omitempty"`
	Footer string  `yaml:"footer,omitempty"`
	Pin    string  `yaml:"pin,omitempty"`
	Width  float64 `yaml:"width,omitempty"`
}

// Row describes a rowtable.RowDef.
//
// When names a predicate passed to Apply or is one of the
// built-in conditions "even", "odd" and "column=value".
// An empty When matches every record.
type Row struct {
	Name     string   `yaml:"name,omitempty"`
	Kind     string   `yaml:"kind"`
	Columns  []string `yaml:"columns,omitempty"`
	Pin      string   `yaml:"pin,omitempty"`
	When     string   `yaml:"when,omitempty"`
	Template string   `yaml:"template,omitempty"`
}

// Load reads and parses a YAML config file.
func Load(file fs.File) (*Config, error) {
	data, err := file.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read table config: %w", err)
	}
	config, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", file.Name(), err)
	}
	return config, nil
}

// Parse parses and validates YAML config data.
// Unknown fields are errors.
func Parse(data []byte) (*Config, error) {
	var config Config
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&config); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("empty table config")
		}
		return nil, err
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// Validate returns all problems of the config joined into one error.
func (c *Config) Validate() error {
	var errs []error
	columns := make(map[string]bool, len(c.Columns))
	for i, col := range c.Columns {
		switch {
		case col.Name == "":
			errs = append(errs, fmt.Errorf("column %d has no name", i))
		case columns[col.Name]:
			errs = append(errs, fmt.Errorf("duplicate column %q", col.Name))
		}
		columns[col.Name] = true
		if _, err := rowtable.ParsePin(col.Pin); err != nil {
			errs = append(errs, fmt.Errorf("column %q: %w", col.Name, err))
		}
	}
	for _, name := range c.DefaultColumns {
		if !columns[name] {
			errs = append(errs, fmt.Errorf("default column %q: %w", name, rowtable.ErrUnknownColumn))
		}
	}

	noDataRows := 0
	for i, row := range c.Rows {
		kind, err := rowtable.ParseRowKind(row.Kind)
		if err != nil {
			errs = append(errs, fmt.Errorf("row %d: %w", i, err))
		}
		if kind == rowtable.NoDataRow {
			noDataRows++
		}
		if _, err := rowtable.ParsePin(row.Pin); err != nil {
			errs = append(errs, fmt.Errorf("row %d: %w", i, err))
		}
		for _, name := range row.Columns {
			if !columns[name] {
				errs = append(errs, fmt.Errorf("row %d column %q: %w", i, name, rowtable.ErrUnknownColumn))
			}
		}
	}
	if noDataRows > 1 {
		errs = append(errs, fmt.Errorf("%d nodata rows, at most one allowed", noDataRows))
	}
	return errors.Join(errs...)
}

// TableOptions returns the rowtable.TableOption values of the config.
func (c *Config) TableOptions() []rowtable.TableOption {
	var opts []rowtable.TableOption
	if c.MultiTemplateDataRows {
		opts = append(opts, rowtable.WithMultiTemplateDataRows())
	}
	return opts
}
