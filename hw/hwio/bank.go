package hwio

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// A bankReg is one hwio field extracted from a register bank structure.
type bankReg struct {
	offset uint16
	regPtr any
}

type regTag struct {
	offset    uint16
	hasOffset bool
	bank      int
	size      int
	vsize     int
	rcb       bool
	wcb       bool
	pcb       bool
	readonly  bool
	writeonly bool
}

func parseTag(tag string) (regTag, error) {
	var rt regTag
	for _, opt := range strings.Split(tag, ",") {
		opt = strings.TrimSpace(opt)
		if opt == "" {
			continue
		}
		key, val, hasVal := strings.Cut(opt, "=")
		switch key {
		case "offset":
			n, err := strconv.ParseUint(val, 0, 16)
			if err != nil {
				return rt, fmt.Errorf("bad offset %q: %w", val, err)
			}
			rt.offset = uint16(n)
			rt.hasOffset = true
		case "bank":
			n, err := strconv.Atoi(val)
			if err != nil {
				return rt, fmt.Errorf("bad bank %q: %w", val, err)
			}
			rt.bank = n
		case "size":
			n, err := strconv.ParseUint(val, 0, 32)
			if err != nil {
				return rt, fmt.Errorf("bad size %q: %w", val, err)
			}
			rt.size = int(n)
		case "vsize":
			n, err := strconv.ParseUint(val, 0, 32)
			if err != nil {
				return rt, fmt.Errorf("bad vsize %q: %w", val, err)
			}
			rt.vsize = int(n)
		case "rcb":
			rt.rcb = true
		case "wcb":
			rt.wcb = true
		case "pcb":
			rt.pcb = true
		case "readonly":
			rt.readonly = true
		case "writeonly":
			rt.writeonly = true
		default:
			if hasVal {
				return rt, fmt.Errorf("unknown option %q", key)
			}
			return rt, fmt.Errorf("unknown flag %q", opt)
		}
	}
	return rt, nil
}

// InitRegs initializes all the hwio-tagged fields of the structure pointed to
// by bank: names are set from the field names, memory buffers are allocated
// from size=, and the rcb/wcb/pcb options are resolved to the bank's
// Read<FIELD>/Write<FIELD>/Peek<FIELD> methods.
func InitRegs(bank any) error {
	v := reflect.ValueOf(bank)
	if v.Kind() != reflect.Ptr || v.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("bank must be a pointer to struct, got %T", bank)
	}
	sv := v.Elem()
	st := sv.Type()

	for i := 0; i < st.NumField(); i++ {
		field := st.Field(i)
		tag, ok := field.Tag.Lookup("hwio")
		if !ok {
			continue
		}
		rt, err := parseTag(tag)
		if err != nil {
			return fmt.Errorf("%s.%s: %w", st.Name(), field.Name, err)
		}

		switch ptr := sv.Field(i).Addr().Interface().(type) {
		case *Reg8:
			ptr.Name = field.Name
			if rt.readonly {
				ptr.Flags |= ReadOnlyFlag
			}
			if rt.writeonly {
				ptr.Flags |= WriteOnlyFlag
			}
			if rt.rcb {
				if _, err := lookupMethod(v, "Read"+strings.ToUpper(field.Name), &ptr.ReadCb); err != nil {
					return err
				}
			}
			if rt.pcb {
				if _, err := lookupMethod(v, "Peek"+strings.ToUpper(field.Name), &ptr.PeekCb); err != nil {
					return err
				}
			}
			if rt.wcb {
				if _, err := lookupMethod(v, "Write"+strings.ToUpper(field.Name), &ptr.WriteCb); err != nil {
					return err
				}
			}

		case *Mem:
			ptr.Name = field.Name
			if ptr.Data == nil && rt.size > 0 {
				ptr.Data = make([]byte, rt.size)
			}
			if rt.vsize != 0 {
				ptr.VSize = rt.vsize
			} else if ptr.VSize == 0 {
				ptr.VSize = len(ptr.Data)
			}
			if rt.readonly {
				ptr.Flags |= MemFlag8ReadOnly
			}
			if rt.wcb {
				if _, err := lookupMethod(v, "Write"+strings.ToUpper(field.Name), &ptr.WriteCb); err != nil {
					return err
				}
			}

		case *Device:
			ptr.Name = field.Name
			if rt.size != 0 {
				ptr.Size = rt.size
			}
			if rt.readonly {
				ptr.Flags |= ReadOnlyFlag
			}
			if rt.writeonly {
				ptr.Flags |= WriteOnlyFlag
			}
			if rt.rcb {
				if _, err := lookupMethod(v, "Read"+strings.ToUpper(field.Name), &ptr.ReadCb); err != nil {
					return err
				}
			}
			if rt.pcb {
				if _, err := lookupMethod(v, "Peek"+strings.ToUpper(field.Name), &ptr.PeekCb); err != nil {
					return err
				}
			}
			if rt.wcb {
				if _, err := lookupMethod(v, "Write"+strings.ToUpper(field.Name), &ptr.WriteCb); err != nil {
					return err
				}
			}

		default:
			return fmt.Errorf("%s.%s: unsupported hwio field type %s", st.Name(), field.Name, field.Type)
		}
	}
	return nil
}

// lookupMethod binds the method named name of v to the function pointed to by
// fptr, which must have the exact signature of the callback.
func lookupMethod(v reflect.Value, name string, fptr any) (reflect.Value, error) {
	m := v.MethodByName(name)
	if !m.IsValid() {
		return m, fmt.Errorf("%s: no method %s", v.Type(), name)
	}
	fv := reflect.ValueOf(fptr).Elem()
	if m.Type() != fv.Type() {
		return m, fmt.Errorf("%s.%s: got %s, want %s", v.Type(), name, m.Type(), fv.Type())
	}
	fv.Set(m)
	return m, nil
}

func MustInitRegs(bank any) {
	if err := InitRegs(bank); err != nil {
		panic(err)
	}
}

func bankGetRegs(bank any, bankNum int) ([]bankReg, error) {
	v := reflect.ValueOf(bank)
	if v.Kind() != reflect.Ptr || v.Elem().Kind() != reflect.Struct {
		return nil, fmt.Errorf("bank must be a pointer to struct, got %T", bank)
	}
	sv := v.Elem()
	st := sv.Type()

	var regs []bankReg
	for i := 0; i < st.NumField(); i++ {
		field := st.Field(i)
		tag, ok := field.Tag.Lookup("hwio")
		if !ok {
			continue
		}
		rt, err := parseTag(tag)
		if err != nil {
			return nil, fmt.Errorf("%s.%s: %w", st.Name(), field.Name, err)
		}
		if !rt.hasOffset || rt.bank != bankNum {
			continue
		}

		switch ptr := sv.Field(i).Addr().Interface().(type) {
		case *Reg8, *Mem, *Device:
			regs = append(regs, bankReg{offset: rt.offset, regPtr: ptr})
		default:
			return nil, fmt.Errorf("%s.%s: unsupported hwio field type %s", st.Name(), field.Name, field.Type)
		}
	}
	if len(regs) == 0 {
		return nil, fmt.Errorf("%s: no hwio regs in bank %d", st.Name(), bankNum)
	}
	return regs, nil
}
