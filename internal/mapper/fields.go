package mapper

import (
	"fmt"
	"time"

	"github.com/dmitrijs2005/growthjournal/internal/models"
	"github.com/dmitrijs2005/growthjournal/internal/remote"
	"google.golang.org/protobuf/types/known/timestamppb"
)

// toTimestamp and fromTimestamp are the only conversions between local
// millisecond instants and the remote timestamp type.
func toTimestamp(ms models.Millis) *timestamppb.Timestamp {
	return timestamppb.New(time.UnixMilli(int64(ms)))
}

func fromTimestamp(ts *timestamppb.Timestamp) models.Millis {
	return models.Millis(ts.AsTime().UnixMilli())
}

// fieldWriter builds a document, keeping the first error.
type fieldWriter struct {
	doc        remote.Document
	collection string
	err        error
}

func (w *fieldWriter) fail(field string, err error) {
	if w.err == nil {
		w.err = &MappingError{Collection: w.collection, ID: w.doc.ID, Field: field, Err: err}
	}
}

func (w *fieldWriter) str(name, v string) {
	w.doc.Fields[name] = v
}

// optStr writes nil for "".
func (w *fieldWriter) optStr(name, v string) {
	if v == "" {
		w.doc.Fields[name] = nil
		return
	}
	w.doc.Fields[name] = v
}

func (w *fieldWriter) ref(name, id string) {
	if !ValidID(id) {
		w.fail(name, fmt.Errorf("%w: %q", ErrInvalidID, id))
		return
	}
	w.doc.Fields[name] = id
}

func (w *fieldWriter) millis(name string, v models.Millis) {
	w.doc.Fields[name] = toTimestamp(v)
}

// optMillis writes nil for zero.
func (w *fieldWriter) optMillis(name string, v models.Millis) {
	if v == 0 {
		w.doc.Fields[name] = nil
		return
	}
	w.millis(name, v)
}

func (w *fieldWriter) date(name string, d models.Date) {
	if d.IsZero() {
		w.fail(name, ErrMissingField)
		return
	}
	w.doc.Fields[name] = d.String()
}

func (w *fieldWriter) ids(name string, ids []string) {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if !ValidID(id) {
			w.fail(name, fmt.Errorf("%w: %q", ErrInvalidID, id))
			return
		}
		out = append(out, id)
	}
	w.doc.Fields[name] = out
}

func (w *fieldWriter) optFloat(name string, v *float64) {
	if v == nil {
		w.doc.Fields[name] = nil
		return
	}
	if !models.Finite(*v) {
		w.fail(name, fmt.Errorf("%w: %v", models.ErrInvalidMeasurement, *v))
		return
	}
	w.doc.Fields[name] = *v
}

func (w *fieldWriter) boolean(name string, v bool) {
	w.doc.Fields[name] = v
}

// enum validates v with parse before writing it.
func enum[E ~string](w *fieldWriter, name string, v E, parse func(string) (E, error)) {
	if _, err := parse(string(v)); err != nil {
		w.fail(name, err)
		return
	}
	w.doc.Fields[name] = string(v)
}

// fieldReader extracts typed values from a document, keeping the first error.
type fieldReader struct {
	doc        remote.Document
	collection string
	err        error
}

func (r *fieldReader) fail(field string, err error) {
	if r.err == nil {
		r.err = &MappingError{Collection: r.collection, ID: r.doc.ID, Field: field, Err: err}
	}
}

func (r *fieldReader) typeErr(name string, v any, want string) {
	r.fail(name, fmt.Errorf("%w: got %T, want %s", ErrFieldType, v, want))
}

func (r *fieldReader) str(name string) string {
	v, ok := r.doc.Fields[name]
	if !ok || v == nil {
		r.fail(name, ErrMissingField)
		return ""
	}
	s, ok := v.(string)
	if !ok {
		r.typeErr(name, v, "string")
	}
	return s
}

func (r *fieldReader) optStr(name string) string {
	v := r.doc.Fields[name]
	if v == nil {
		return ""
	}
	s, ok := v.(string)
	if !ok {
		r.typeErr(name, v, "string")
	}
	return s
}

func (r *fieldReader) millis(name string) models.Millis {
	v, ok := r.doc.Fields[name]
	if !ok || v == nil {
		r.fail(name, ErrMissingField)
		return 0
	}
	ts, ok := v.(*timestamppb.Timestamp)
	if !ok {
		r.typeErr(name, v, "timestamp")
		return 0
	}
	if err := ts.CheckValid(); err != nil {
		r.fail(name, err)
		return 0
	}
	return fromTimestamp(ts)
}

func (r *fieldReader) optMillis(name string) models.Millis {
	if r.doc.Fields[name] == nil {
		return 0
	}
	return r.millis(name)
}

func (r *fieldReader) date(name string) models.Date {
	s := r.str(name)
	if r.err != nil {
		return models.Date{}
	}
	d, err := models.ParseDate(s)
	if err != nil {
		r.fail(name, err)
	}
	return d
}

func (r *fieldReader) ids(name string) []string {
	v := r.doc.Fields[name]
	if v == nil {
		return []string{}
	}
	list, ok := v.([]string)
	if !ok {
		r.typeErr(name, v, "array")
		return []string{}
	}
	out := make([]string, 0, len(list))
	for _, id := range list {
		if id != "" {
			out = append(out, id)
		}
	}
	return out
}

// optFloat accepts integer values too; some writers store whole measurements as integers.
func (r *fieldReader) optFloat(name string) *float64 {
	switch x := r.doc.Fields[name].(type) {
	case nil:
		return nil
	case float64:
		if !models.Finite(x) {
			r.fail(name, fmt.Errorf("%w: %v", models.ErrInvalidMeasurement, x))
			return nil
		}
		return &x
	case int64:
		f := float64(x)
		return &f
	default:
		r.typeErr(name, x, "number")
		return nil
	}
}

func (r *fieldReader) boolean(name string) bool {
	switch x := r.doc.Fields[name].(type) {
	case nil:
		return false
	case bool:
		return x
	default:
		r.typeErr(name, x, "boolean")
		return false
	}
}

func parseEnum[E ~string](r *fieldReader, name string, parse func(string) (E, error)) E {
	s := r.str(name)
	if r.err != nil {
		return ""
	}
	v, err := parse(s)
	if err != nil {
		r.fail(name, err)
	}
	return v
}
