package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	"gopkg.in/yaml.v3"

	"github.com/zx06/keychain/internal/errors"
)

type Writer struct {
	Out io.Writer
	Err io.Writer
}

func New(out, err io.Writer) Writer {
	return Writer{Out: out, Err: err}
}

func (w Writer) WriteOK(format Format, data any) error {
	return w.write(format, Envelope{OK: true, SchemaVersion: SchemaVersion, Data: data})
}

func (w Writer) WriteError(format Format, xe *errors.XError) error {
	errObj := &ErrorObject{Code: xe.Code, Message: xe.Message, Details: xe.Details}
	return w.write(format, Envelope{OK: false, SchemaVersion: SchemaVersion, Error: errObj})
}

func (w Writer) write(format Format, env Envelope) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w.Out)
		enc.SetEscapeHTML(false)
		return enc.Encode(env)
	case FormatYAML:
		b, err := yaml.Marshal(env)
		if err != nil {
			return err
		}
		_, err = w.Out.Write(b)
		if err != nil {
			return err
		}
		if len(b) == 0 || b[len(b)-1] != '\n' {
			_, _ = w.Out.Write([]byte("\n"))
		}
		return nil
	case FormatTable:
		return writeTable(w.Out, env)
	case FormatCSV:
		return writeCSV(w.Out, env)
	default:
		return errors.New(errors.CodeCfgInvalid, "invalid output format", map[string]any{"format": string(format)})
	}
}

// flatten 把 data 转成有序的 key/value 行；非对象数据退化为单行 "data"。
func flatten(data any) [][2]string {
	if data == nil {
		return nil
	}
	b, err := json.Marshal(data)
	if err != nil {
		return [][2]string{{"data", fmt.Sprintf("%v", data)}}
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		return [][2]string{{"data", string(b)}}
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	rows := make([][2]string, 0, len(keys))
	for _, k := range keys {
		rows = append(rows, [2]string{k, cell(m[k])})
	}
	return rows
}

func cell(v any) string {
	switch x := v.(type) {
	case nil:
		return "<null>"
	case string:
		return x
	case map[string]any, []any:
		b, _ := json.Marshal(x)
		return string(b)
	default:
		return fmt.Sprintf("%v", x)
	}
}

func writeTable(out io.Writer, env Envelope) error {
	tw := tabwriter.NewWriter(out, 0, 2, 2, ' ', 0)
	if env.OK {
		for _, row := range flatten(env.Data) {
			_, _ = fmt.Fprintf(tw, "%s\t%s\n", row[0], row[1])
		}
	} else if env.Error != nil {
		_, _ = fmt.Fprintf(tw, "error.code\t%s\n", env.Error.Code)
		_, _ = fmt.Fprintf(tw, "error.message\t%s\n", env.Error.Message)
		for _, row := range flatten(env.Error.Details) {
			_, _ = fmt.Fprintf(tw, "error.details.%s\t%s\n", row[0], row[1])
		}
	}
	return tw.Flush()
}

func writeCSV(out io.Writer, env Envelope) error {
	cw := csv.NewWriter(out)
	defer cw.Flush()
	_ = cw.Write([]string{"key", "value"})
	if env.OK {
		for _, row := range flatten(env.Data) {
			_ = cw.Write([]string{row[0], row[1]})
		}
		cw.Flush()
		return cw.Error()
	}
	if env.Error != nil {
		_ = cw.Write([]string{"error.code", string(env.Error.Code)})
		_ = cw.Write([]string{"error.message", env.Error.Message})
	}
	cw.Flush()
	return cw.Error()
}
