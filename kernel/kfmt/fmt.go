// Package kfmt implements the kernel's console output: an allocation-free
// Printf subset, an early ring buffer that captures output before a console
// sink is attached, and levelled logging helpers.
package kfmt

import (
	"io"
	"unsafe"
)

// maxBufSize defines the buffer size for formatting numbers.
const maxBufSize = 32

var (
	errMissingArg   = []byte("(MISSING)")
	errWrongArgType = []byte("%!(WRONGTYPE)")
	errNoVerb       = []byte("%!(NOVERB)")
	errExtraArg     = []byte("%!(EXTRA)")
	trueValue       = []byte("true")
	falseValue      = []byte("false")

	// numFmtBuf holds the digits of the number being formatted; digits
	// are written right-to-left starting at the end of the buffer.
	numFmtBuf [maxBufSize]byte

	// singleByte is used as a shared buffer for passing single characters
	// to doWrite.
	singleByte = []byte(" ")

	// earlyPrintBuffer is a ring buffer that stores Printf output before
	// a console sink is attached via SetOutputSink.
	earlyPrintBuffer ringBuffer

	// outputSink is a io.Writer where Printf will send its output. If set
	// to nil, then the output will be redirected to the earlyPrintBuffer.
	outputSink io.Writer
)

// fieldSpec captures the width and alignment flags that precede a verb.
type fieldSpec struct {
	width     int
	leftAlign bool
}

// SetOutputSink sets the default target for calls to Printf to w and copies
// any data accumulated in the earlyPrintBuffer to it.
func SetOutputSink(w io.Writer) {
	outputSink = w
	if w != nil {
		io.Copy(w, &earlyPrintBuffer)
	}
}

// Printf provides a minimal Printf implementation that can be safely used
// before the Go runtime has been properly initialized. This implementation
// does not allocate any memory.
//
// The following subset of formatting verbs is supported:
//
//	%s  string or byte slice
//	%d  integer, base 10
//	%o  integer, base 8
//	%x  integer, base 16 with lower-case letters
//	%t  "true" or "false"
//
// A decimal width may precede the verb. Values shorter than the width are
// left-padded with spaces, except for base 8 and base 16 integers which are
// left-padded with zeroes. A '-' flag pads on the right with spaces instead.
//
// Printf assumes that the Go itables have not been initialized yet so it
// does not check whether its arguments implement io.Stringer.
//
// The output of Printf is written to the active output sink or buffered
// into a ring buffer if no sink is attached yet.
func Printf(format string, args ...interface{}) {
	Fprintf(outputSink, format, args...)
}

// Fprintf behaves exactly like Printf but it writes the formatted output to
// the specified io.Writer.
func Fprintf(w io.Writer, format string, args ...interface{}) {
	var (
		nextArg int
		spec    fieldSpec
		fmtLen  = len(format)
	)

	for index := 0; index < fmtLen; index++ {
		if format[index] != '%' {
			// passing format[a:b] to doWrite triggers a memory
			// allocation so we need to do this one byte at a time.
			writeByte(w, format[index])
			continue
		}

		spec = fieldSpec{}
		for index++; ; index++ {
			if index == fmtLen {
				doWrite(w, errNoVerb)
				break
			}

			ch := format[index]
			if ch == '-' {
				spec.leftAlign = true
				continue
			}
			if ch >= '0' && ch <= '9' {
				spec.width = (spec.width * 10) + int(ch-'0')
				continue
			}

			switch ch {
			case '%':
				writeByte(w, '%')
			case 'd', 'o', 'x', 's', 't':
				if nextArg >= len(args) {
					doWrite(w, errMissingArg)
					break
				}

				fmtArg(w, ch, args[nextArg], spec)
				nextArg++
			default:
				doWrite(w, errNoVerb)
			}
			break
		}
	}

	for ; nextArg < len(args); nextArg++ {
		doWrite(w, errExtraArg)
	}
}

// fmtArg dispatches arg to the formatter for verb.
func fmtArg(w io.Writer, verb byte, arg interface{}, spec fieldSpec) {
	switch verb {
	case 'd':
		fmtInt(w, arg, 10, spec)
	case 'o':
		fmtInt(w, arg, 8, spec)
	case 'x':
		fmtInt(w, arg, 16, spec)
	case 's':
		fmtString(w, arg, spec)
	case 't':
		fmtBool(w, arg)
	}
}

// fmtBool prints a formatted version of boolean value v.
func fmtBool(w io.Writer, v interface{}) {
	bVal, ok := v.(bool)
	switch {
	case !ok:
		doWrite(w, errWrongArgType)
	case bVal:
		doWrite(w, trueValue)
	default:
		doWrite(w, falseValue)
	}
}

// fmtString prints a formatted version of string or []byte value v, applying
// the padding specified by spec.
func fmtString(w io.Writer, v interface{}, spec fieldSpec) {
	switch castedVal := v.(type) {
	case string:
		padLeft(w, ' ', spec, len(castedVal))
		// converting the string to a byte slice triggers a memory
		// allocation so we need to do this one byte at a time.
		for i := 0; i < len(castedVal); i++ {
			writeByte(w, castedVal[i])
		}
		padRight(w, spec, len(castedVal))
	case []byte:
		padLeft(w, ' ', spec, len(castedVal))
		doWrite(w, castedVal)
		padRight(w, spec, len(castedVal))
	default:
		doWrite(w, errWrongArgType)
	}
}

// fmtInt prints out a formatted version of v in the requested base, applying
// the padding specified by spec. This function supports all built-in signed
// and unsigned integer types.
func fmtInt(w io.Writer, v interface{}, base uint64, spec fieldSpec) {
	var (
		uval     uint64
		negative bool
	)

	switch t := v.(type) {
	case uint8:
		uval = uint64(t)
	case uint16:
		uval = uint64(t)
	case uint32:
		uval = uint64(t)
	case uint64:
		uval = t
	case uint:
		uval = uint64(t)
	case uintptr:
		uval = uint64(t)
	case int8:
		uval, negative = magnitude(int64(t))
	case int16:
		uval, negative = magnitude(int64(t))
	case int32:
		uval, negative = magnitude(int64(t))
	case int64:
		uval, negative = magnitude(t)
	case int:
		uval, negative = magnitude(int64(t))
	default:
		doWrite(w, errWrongArgType)
		return
	}

	if spec.width >= maxBufSize {
		spec.width = maxBufSize - 1
	}

	start := len(numFmtBuf)
	for {
		start--
		digit := byte(uval % base)
		if digit < 10 {
			numFmtBuf[start] = '0' + digit
		} else {
			numFmtBuf[start] = 'a' + digit - 10
		}

		if uval /= base; uval == 0 {
			break
		}
	}

	fieldLen := len(numFmtBuf) - start
	if negative {
		fieldLen++
	}

	// base 10 values are padded with spaces before the sign; base 8 and
	// 16 values are zero-padded after the sign.
	zeroPad := base != 10 && !spec.leftAlign
	if !zeroPad {
		padLeft(w, ' ', spec, fieldLen)
	}
	if negative {
		writeByte(w, '-')
	}
	if zeroPad {
		padLeft(w, '0', spec, fieldLen)
	}
	doWrite(w, numFmtBuf[start:])
	padRight(w, spec, fieldLen)
}

// magnitude splits a signed value into its absolute value and sign.
func magnitude(v int64) (uint64, bool) {
	if v < 0 {
		return uint64(-v), true
	}
	return uint64(v), false
}

// padLeft emits the padding required to right-align a field of length
// fieldLen unless left alignment was requested.
func padLeft(w io.Writer, ch byte, spec fieldSpec, fieldLen int) {
	if !spec.leftAlign {
		writeRepeat(w, ch, spec.width-fieldLen)
	}
}

// padRight emits the trailing spaces of a left-aligned field.
func padRight(w io.Writer, spec fieldSpec, fieldLen int) {
	if spec.leftAlign {
		writeRepeat(w, ' ', spec.width-fieldLen)
	}
}

// writeRepeat writes count bytes with value ch.
func writeRepeat(w io.Writer, ch byte, count int) {
	for ; count > 0; count-- {
		writeByte(w, ch)
	}
}

// writeByte writes a single byte via the shared singleByte buffer.
func writeByte(w io.Writer, ch byte) {
	singleByte[0] = ch
	doWrite(w, singleByte)
}

// doWrite is a proxy that uses the runtime.noescape hack to hide p from the
// compiler's escape analysis. Without this hack, the compiler cannot properly
// detect that p does not escape (due to the call to the yet unknown outputSink
// io.Writer) and plays it safe by flagging it as escaping. This causes all
// calls to Printf to call runtime.convT2E which triggers a memory allocation
// causing the kernel to crash if a call to Printf is made before the Go
// allocator is initialized.
func doWrite(w io.Writer, p []byte) {
	doRealWrite(w, noEscape(unsafe.Pointer(&p)))
}

func doRealWrite(w io.Writer, bufPtr unsafe.Pointer) {
	p := *(*[]byte)(bufPtr)
	if w != nil {
		w.Write(p)
	} else {
		earlyPrintBuffer.Write(p)
	}
}

// noEscape hides a pointer from escape analysis. This function is copied over
// from runtime/stubs.go
//
//go:nosplit
func noEscape(p unsafe.Pointer) unsafe.Pointer {
	x := uintptr(p)
	return unsafe.Pointer(x ^ 0)
}
