package log

import (
	"fmt"
	"time"

	"gopkg.in/Sirupsen/logrus.v0"
)

const maxZFields = 16

// EntryZ is the allocation-conscious counterpart of Entry. Fields are
// accumulated in a fixed buffer and only converted for the backend in End(),
// and only if the module/level combination is enabled (a disabled entry is a
// nil pointer, on which every method is a no-op).
type EntryZ struct {
	mod Module
	lvl Level
	msg string

	zfbuf [maxZFields]ZField
	zfidx int
}

func newEntryZ() *EntryZ {
	return &EntryZ{}
}

func (e *EntryZ) addField(f ZField) *EntryZ {
	if e == nil || e.zfidx == maxZFields {
		return e
	}
	e.zfbuf[e.zfidx] = f
	e.zfidx++
	return e
}

func (e *EntryZ) Bool(key string, val bool) *EntryZ {
	return e.addField(ZField{Type: FieldTypeBool, Key: key, Boolean: val})
}

func (e *EntryZ) String(key string, val string) *EntryZ {
	return e.addField(ZField{Type: FieldTypeString, Key: key, String: val})
}

func (e *EntryZ) Stringer(key string, val fmt.Stringer) *EntryZ {
	return e.addField(ZField{Type: FieldTypeStringer, Key: key, Interface: val})
}

func (e *EntryZ) Hex8(key string, val uint8) *EntryZ {
	return e.addField(ZField{Type: FieldTypeHex8, Key: key, Integer: uint64(val)})
}

func (e *EntryZ) Hex16(key string, val uint16) *EntryZ {
	return e.addField(ZField{Type: FieldTypeHex16, Key: key, Integer: uint64(val)})
}

func (e *EntryZ) Hex32(key string, val uint32) *EntryZ {
	return e.addField(ZField{Type: FieldTypeHex32, Key: key, Integer: uint64(val)})
}

func (e *EntryZ) Hex64(key string, val uint64) *EntryZ {
	return e.addField(ZField{Type: FieldTypeHex64, Key: key, Integer: val})
}

func (e *EntryZ) Uint8(key string, val uint8) *EntryZ {
	return e.addField(ZField{Type: FieldTypeUint, Key: key, Integer: uint64(val)})
}

func (e *EntryZ) Uint16(key string, val uint16) *EntryZ {
	return e.addField(ZField{Type: FieldTypeUint, Key: key, Integer: uint64(val)})
}

func (e *EntryZ) Uint32(key string, val uint32) *EntryZ {
	return e.addField(ZField{Type: FieldTypeUint, Key: key, Integer: uint64(val)})
}

func (e *EntryZ) Uint64(key string, val uint64) *EntryZ {
	return e.addField(ZField{Type: FieldTypeUint, Key: key, Integer: val})
}

func (e *EntryZ) Int(key string, val int) *EntryZ {
	return e.addField(ZField{Type: FieldTypeInt, Key: key, Integer: uint64(val)})
}

func (e *EntryZ) Int32(key string, val int32) *EntryZ {
	return e.addField(ZField{Type: FieldTypeInt, Key: key, Integer: uint64(val)})
}

func (e *EntryZ) Int64(key string, val int64) *EntryZ {
	return e.addField(ZField{Type: FieldTypeInt, Key: key, Integer: uint64(val)})
}

func (e *EntryZ) Error(key string, err error) *EntryZ {
	return e.addField(ZField{Type: FieldTypeError, Key: key, Error: err})
}

func (e *EntryZ) Duration(key string, d time.Duration) *EntryZ {
	return e.addField(ZField{Type: FieldTypeDuration, Key: key, Duration: d})
}

func (e *EntryZ) Blob(key string, p []byte) *EntryZ {
	return e.addField(ZField{Type: FieldTypeBlob, Key: key, Blob: p})
}

// End emits the entry. The EntryZ must not be reused afterwards.
func (e *EntryZ) End() {
	if e == nil {
		return
	}

	fields := make(logrus.Fields, e.zfidx+1)
	fields["_mod"] = modNames[e.mod]
	for i := range e.zfbuf[:e.zfidx] {
		fields[e.zfbuf[i].Key] = e.zfbuf[i].Value()
	}

	entry := logrus.StandardLogger().WithFields(fields)
	switch e.lvl {
	case DebugLevel:
		entry.Debug(e.msg)
	case InfoLevel:
		entry.Info(e.msg)
	case WarnLevel:
		entry.Warn(e.msg)
	case ErrorLevel:
		entry.Error(e.msg)
	case FatalLevel:
		entry.Fatal(e.msg)
	case PanicLevel:
		entry.Panic(e.msg)
	}
}
