package logging

import (
	"fmt"
	"time"

	"go.uber.org/zap/buffer"
	"go.uber.org/zap/zapcore"
)

// kvEncoder is a minimal zapcore.Encoder that renders entries as
// "[LEVEL] message key=value key2=value2", the compact form the original
// logger produced and every motionctl log-scraping test expects.
type kvEncoder struct {
	fields []zapcore.Field
}

func newKVEncoder() zapcore.Encoder {
	return &kvEncoder{}
}

func (e *kvEncoder) Clone() zapcore.Encoder {
	cp := make([]zapcore.Field, len(e.fields))
	copy(cp, e.fields)
	return &kvEncoder{fields: cp}
}

func (e *kvEncoder) EncodeEntry(ent zapcore.Entry, fields []zapcore.Field) (*buffer.Buffer, error) {
	buf := buffer.NewPool().Get()
	buf.AppendString("[")
	buf.AppendString(ent.Level.CapitalString())
	buf.AppendString("] ")
	buf.AppendString(ent.Message)

	all := make([]zapcore.Field, 0, len(e.fields)+len(fields))
	all = append(all, e.fields...)
	all = append(all, fields...)
	for _, f := range all {
		buf.AppendString(" ")
		buf.AppendString(f.Key)
		buf.AppendString("=")
		buf.AppendString(fieldValue(f))
	}
	buf.AppendString("\n")
	return buf, nil
}

func fieldValue(f zapcore.Field) string {
	switch f.Type {
	case zapcore.StringType:
		return f.String
	case zapcore.Int64Type, zapcore.Int32Type, zapcore.Int16Type, zapcore.Int8Type:
		return fmt.Sprintf("%d", f.Integer)
	case zapcore.Uint64Type, zapcore.Uint32Type, zapcore.Uint16Type, zapcore.Uint8Type:
		return fmt.Sprintf("%d", uint64(f.Integer))
	case zapcore.Float64Type:
		return fmt.Sprintf("%v", f.Interface)
	case zapcore.BoolType:
		if f.Integer == 1 {
			return "true"
		}
		return "false"
	case zapcore.ErrorType:
		if err, ok := f.Interface.(error); ok && err != nil {
			return err.Error()
		}
		return "<nil>"
	default:
		if f.Interface != nil {
			return fmt.Sprintf("%v", f.Interface)
		}
		return f.String
	}
}

// The remaining methods satisfy zapcore.ObjectEncoder / zapcore.Encoder
// but motionctl only ever logs flat key-value pairs via SugaredLogger, so
// they're simple field recorders rather than full nested encoders.

func (e *kvEncoder) AddArray(key string, marshaler zapcore.ArrayMarshaler) error {
	e.fields = append(e.fields, zapcore.Field{Key: key, Type: zapcore.ReflectType, Interface: marshaler})
	return nil
}
func (e *kvEncoder) AddObject(key string, marshaler zapcore.ObjectMarshaler) error {
	e.fields = append(e.fields, zapcore.Field{Key: key, Type: zapcore.ReflectType, Interface: marshaler})
	return nil
}
func (e *kvEncoder) AddBinary(key string, value []byte)    { e.AddString(key, string(value)) }
func (e *kvEncoder) AddByteString(key string, value []byte) { e.AddString(key, string(value)) }
func (e *kvEncoder) AddBool(key string, value bool) {
	i := int64(0)
	if value {
		i = 1
	}
	e.fields = append(e.fields, zapcore.Field{Key: key, Type: zapcore.BoolType, Integer: i})
}
func (e *kvEncoder) AddComplex128(key string, value complex128) { e.addf(key, value) }
func (e *kvEncoder) AddComplex64(key string, value complex64)   { e.addf(key, value) }
func (e *kvEncoder) AddDuration(key string, value time.Duration) {
	e.AddString(key, value.String())
}
func (e *kvEncoder) AddFloat64(key string, value float64) {
	e.fields = append(e.fields, zapcore.Field{Key: key, Type: zapcore.Float64Type, Interface: value})
}
func (e *kvEncoder) AddFloat32(key string, value float32)  { e.AddFloat64(key, float64(value)) }
func (e *kvEncoder) AddInt(key string, value int)          { e.AddInt64(key, int64(value)) }
func (e *kvEncoder) AddInt64(key string, value int64) {
	e.fields = append(e.fields, zapcore.Field{Key: key, Type: zapcore.Int64Type, Integer: value})
}
func (e *kvEncoder) AddInt32(key string, value int32)   { e.AddInt64(key, int64(value)) }
func (e *kvEncoder) AddInt16(key string, value int16)   { e.AddInt64(key, int64(value)) }
func (e *kvEncoder) AddInt8(key string, value int8)     { e.AddInt64(key, int64(value)) }
func (e *kvEncoder) AddString(key, value string) {
	e.fields = append(e.fields, zapcore.Field{Key: key, Type: zapcore.StringType, String: value})
}
func (e *kvEncoder) AddTime(key string, value time.Time) {
	e.AddString(key, value.String())
}
func (e *kvEncoder) AddUint(key string, value uint)     { e.AddInt64(key, int64(value)) }
func (e *kvEncoder) AddUint64(key string, value uint64) { e.AddInt64(key, int64(value)) }
func (e *kvEncoder) AddUint32(key string, value uint32) { e.AddInt64(key, int64(value)) }
func (e *kvEncoder) AddUint16(key string, value uint16) { e.AddInt64(key, int64(value)) }
func (e *kvEncoder) AddUint8(key string, value uint8)   { e.AddInt64(key, int64(value)) }
func (e *kvEncoder) AddUintptr(key string, value uintptr) { e.AddInt64(key, int64(value)) }
func (e *kvEncoder) AddReflected(key string, value interface{}) error {
	e.fields = append(e.fields, zapcore.Field{Key: key, Type: zapcore.ReflectType, Interface: value})
	return nil
}
func (e *kvEncoder) OpenNamespace(key string) {}

func (e *kvEncoder) addf(key string, value interface{}) {
	e.fields = append(e.fields, zapcore.Field{Key: key, Type: zapcore.ReflectType, Interface: value})
}
