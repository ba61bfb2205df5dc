// Package output renders command results as tables, JSON or YAML.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"reflect"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/mattn/go-isatty"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/agentstation/sheetsync/pkg/errors"
)

// Format types for output.
type Format string

const (
	// FormatTable represents table output format.
	FormatTable Format = "table"
	// FormatJSON represents JSON output format.
	FormatJSON Format = "json"
	// FormatYAML represents YAML output format.
	FormatYAML Format = "yaml"
	// FormatWide represents wide table output format, which also lists
	// individual row changes.
	FormatWide Format = "wide"
)

// Align is a column alignment for table output.
type Align int

const (
	// AlignDefault leaves alignment to the table renderer.
	AlignDefault Align = iota
	// AlignLeft aligns a column left.
	AlignLeft
	// AlignCenter centers a column.
	AlignCenter
	// AlignRight aligns a column right.
	AlignRight
)

// Formatter interface for all output types.
type Formatter interface {
	Format(w io.Writer, data any) error
}

// FormatterFunc allows functions to implement Formatter.
type FormatterFunc func(io.Writer, any) error

// Format implements the Formatter interface.
func (f FormatterFunc) Format(w io.Writer, data any) error {
	return f(w, data)
}

// NewFormatter creates appropriate formatter based on format.
func NewFormatter(format Format) Formatter {
	switch format {
	case FormatJSON:
		return &JSONFormatter{Indent: "  "}
	case FormatYAML:
		return &YAMLFormatter{}
	case FormatTable, FormatWide:
		return &TableFormatter{Wide: format == FormatWide}
	default:
		return &TableFormatter{}
	}
}

// JSONFormatter outputs JSON format.
type JSONFormatter struct {
	Indent string
}

// Format implements the Formatter interface for JSON output.
func (f *JSONFormatter) Format(w io.Writer, data any) error {
	encoder := json.NewEncoder(w)
	if f.Indent != "" {
		encoder.SetIndent("", f.Indent)
	}
	return encoder.Encode(data)
}

// YAMLFormatter outputs YAML format.
type YAMLFormatter struct{}

// Format outputs data in YAML format.
func (f *YAMLFormatter) Format(w io.Writer, data any) error {
	yamlData, err := yaml.MarshalWithOptions(data,
		yaml.Indent(2),
		yaml.IndentSequence(false),
	)
	if err != nil {
		return err
	}
	_, err = w.Write(yamlData)
	return err
}

// TableFormatter outputs table format.
type TableFormatter struct {
	Wide bool
}

// Format outputs data in table format.
func (f *TableFormatter) Format(w io.Writer, data any) error {
	switch v := data.(type) {
	case Data:
		return f.formatTable(w, v)
	case *Data:
		return f.formatTable(w, *v)
	}
	if tableData := f.convertToTableData(data); tableData != nil {
		return f.formatTable(w, *tableData)
	}
	// Non-tabular data falls back to JSON.
	return (&JSONFormatter{Indent: "  "}).Format(w, data)
}

func (f *TableFormatter) formatTable(w io.Writer, data Data) error {
	opts := []tablewriter.Option{}
	config := tablewriter.Config{}
	if len(data.ColumnAlignment) > 0 {
		twAlign := make([]tw.Align, len(data.ColumnAlignment))
		for i, align := range data.ColumnAlignment {
			switch align {
			case AlignLeft:
				twAlign[i] = tw.AlignLeft
			case AlignCenter:
				twAlign[i] = tw.AlignCenter
			case AlignRight:
				twAlign[i] = tw.AlignRight
			default:
				twAlign[i] = tw.Skip
			}
		}

		config.Header.Alignment = tw.CellAlignment{PerColumn: twAlign}
		config.Row.Alignment = tw.CellAlignment{PerColumn: twAlign}
	}

	opts = append(opts, tablewriter.WithConfig(config))
	tbl := tablewriter.NewTable(w, opts...)

	if len(data.Headers) > 0 {
		tbl.Header(toAny(data.Headers)...)
	}
	for _, row := range data.Rows {
		if err := tbl.Append(toAny(row)...); err != nil {
			return err
		}
	}
	return tbl.Render()
}

func toAny(cells []string) []any {
	out := make([]any, len(cells))
	for i, c := range cells {
		out[i] = c
	}
	return out
}

// Data represents data formatted for table output.
type Data struct {
	Headers         []string
	Rows            [][]string
	ColumnAlignment []Align // Optional
}

// DetectFormat returns the explicit format when given, otherwise table
// output for terminals and JSON for pipes and redirects.
func DetectFormat(explicitFormat string, w io.Writer) Format {
	if explicitFormat != "" {
		return Format(strings.ToLower(explicitFormat))
	}
	if f, ok := w.(*os.File); ok {
		if isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()) {
			return FormatTable
		}
	}
	return FormatJSON
}

// ParseFormat converts string to Format with validation.
func ParseFormat(s string) (Format, error) {
	format := Format(strings.ToLower(s))
	switch format {
	case FormatTable, FormatJSON, FormatYAML, FormatWide, "":
		return format, nil
	default:
		return "", &errors.ValidationError{
			Field:   "output",
			Value:   s,
			Message: fmt.Sprintf("invalid format %q: must be one of: table, json, yaml, wide", s),
		}
	}
}

// convertToTableData converts structs and struct slices to Data using
// reflection. Fields tagged json:"-" and unexported fields are left out.
func (f *TableFormatter) convertToTableData(data any) *Data {
	v := reflect.Indirect(reflect.ValueOf(data))

	switch {
	case v.Kind() == reflect.Slice && v.Len() > 0:
		if reflect.Indirect(v.Index(0)).Kind() == reflect.Struct {
			return f.structSliceToTableData(v)
		}
	case v.Kind() == reflect.Struct:
		return f.singleStructToTableData(v)
	}
	return nil
}

// structSliceToTableData converts a slice of structs to one row per element.
func (f *TableFormatter) structSliceToTableData(v reflect.Value) *Data {
	fields := visibleFields(reflect.Indirect(v.Index(0)).Type())

	headers := make([]string, len(fields))
	for i, field := range fields {
		headers[i] = columnTitle(field)
	}

	rows := make([][]string, 0, v.Len())
	for i := 0; i < v.Len(); i++ {
		elem := reflect.Indirect(v.Index(i))
		row := make([]string, len(fields))
		for j, field := range fields {
			row[j] = cellValue(elem.FieldByIndex(field.Index))
		}
		rows = append(rows, row)
	}

	return &Data{Headers: headers, Rows: rows}
}

// singleStructToTableData converts a single struct to a key-value table.
func (f *TableFormatter) singleStructToTableData(v reflect.Value) *Data {
	var rows [][]string
	for _, field := range visibleFields(v.Type()) {
		rows = append(rows, []string{
			columnTitle(field),
			cellValue(v.FieldByIndex(field.Index)),
		})
	}
	return &Data{Headers: []string{"Property", "Value"}, Rows: rows}
}

func visibleFields(t reflect.Type) []reflect.StructField {
	var fields []reflect.StructField
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() || field.Tag.Get("json") == "-" {
			continue
		}
		fields = append(fields, field)
	}
	return fields
}

func cellValue(v reflect.Value) string {
	if v.Kind() == reflect.Pointer && v.IsNil() {
		return ""
	}
	return fmt.Sprintf("%v", reflect.Indirect(v).Interface())
}

// columnTitle derives a column heading from the json tag, falling back to
// the field name: "total_updates" becomes "Total Updates".
func columnTitle(field reflect.StructField) string {
	tag, _, _ := strings.Cut(field.Tag.Get("json"), ",")
	if tag == "" {
		return field.Name
	}
	return cases.Title(language.English).String(strings.ReplaceAll(tag, "_", " "))
}
