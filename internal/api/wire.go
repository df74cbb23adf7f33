package api

import (
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/moodiary/internal/domain"
	"google.golang.org/protobuf/encoding/protowire"
	"google.golang.org/protobuf/types/known/timestamppb"
)

// wireMessage is implemented by every request and response type. The
// encoding is the protobuf binary format described in proto/moodiary.proto.
type wireMessage interface {
	appendWire(b []byte) []byte
	decodeWire(b []byte) error
}

var (
	errWireType = errors.New("api: unexpected wire type")

	// errSkip tells decodeFields the field is not known to the message.
	errSkip = errors.New("api: skip field")
)

type fieldFunc func(num protowire.Number, typ protowire.Type, b []byte) (int, error)

// decodeFields walks the fields of one message. Unknown fields are skipped
// so older peers can read newer messages.
func decodeFields(b []byte, field fieldFunc) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return protowire.ParseError(n)
		}
		b = b[n:]

		n, err := field(num, typ, b)
		if errors.Is(err, errSkip) {
			n, err = protowire.ConsumeFieldValue(num, typ, b), nil
		}
		if err != nil {
			return fmt.Errorf("field %d: %w", num, err)
		}
		if n < 0 {
			return protowire.ParseError(n)
		}
		b = b[n:]
	}
	return nil
}

func skipAll(protowire.Number, protowire.Type, []byte) (int, error) {
	return 0, errSkip
}

func appendString[T ~string](b []byte, num protowire.Number, v T) []byte {
	if v == "" {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendString(b, string(v))
}

func appendInt64(b []byte, num protowire.Number, v int64) []byte {
	if v == 0 {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, uint64(v))
}

func appendBool(b []byte, num protowire.Number, v bool) []byte {
	if !v {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, protowire.EncodeBool(v))
}

func appendMessage(b []byte, num protowire.Number, msg []byte) []byte {
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, msg)
}

// appendTime writes t as a google.protobuf.Timestamp. Zero times are
// omitted.
func appendTime(b []byte, num protowire.Number, t time.Time) []byte {
	if t.IsZero() {
		return b
	}
	ts := timestamppb.New(t)
	var msg []byte
	msg = appendInt64(msg, 1, ts.GetSeconds())
	msg = appendInt64(msg, 2, int64(ts.GetNanos()))
	return appendMessage(b, num, msg)
}

func consumeString[T ~string](typ protowire.Type, b []byte, dst *T) (int, error) {
	if typ != protowire.BytesType {
		return 0, errWireType
	}
	v, n := protowire.ConsumeString(b)
	if n < 0 {
		return 0, protowire.ParseError(n)
	}
	*dst = T(v)
	return n, nil
}

func consumeRepeatedString(typ protowire.Type, b []byte, dst *[]string) (int, error) {
	var v string
	n, err := consumeString(typ, b, &v)
	if err != nil {
		return 0, err
	}
	*dst = append(*dst, v)
	return n, nil
}

func consumeVarint(typ protowire.Type, b []byte) (uint64, int, error) {
	if typ != protowire.VarintType {
		return 0, 0, errWireType
	}
	v, n := protowire.ConsumeVarint(b)
	if n < 0 {
		return 0, 0, protowire.ParseError(n)
	}
	return v, n, nil
}

func consumeInt64(typ protowire.Type, b []byte, dst *int64) (int, error) {
	v, n, err := consumeVarint(typ, b)
	if err != nil {
		return 0, err
	}
	*dst = int64(v)
	return n, nil
}

func consumeBool(typ protowire.Type, b []byte, dst *bool) (int, error) {
	v, n, err := consumeVarint(typ, b)
	if err != nil {
		return 0, err
	}
	*dst = protowire.DecodeBool(v)
	return n, nil
}

func consumeMessage(typ protowire.Type, b []byte, decode func([]byte) error) (int, error) {
	if typ != protowire.BytesType {
		return 0, errWireType
	}
	v, n := protowire.ConsumeBytes(b)
	if n < 0 {
		return 0, protowire.ParseError(n)
	}
	return n, decode(v)
}

func consumeTime(typ protowire.Type, b []byte, dst *time.Time) (int, error) {
	return consumeMessage(typ, b, func(msg []byte) error {
		ts := &timestamppb.Timestamp{}
		err := decodeFields(msg, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
			switch num {
			case 1:
				return consumeInt64(typ, b, &ts.Seconds)
			case 2:
				var nanos int64
				n, err := consumeInt64(typ, b, &nanos)
				ts.Nanos = int32(nanos)
				return n, err
			}
			return 0, errSkip
		})
		if err != nil {
			return err
		}
		if err := ts.CheckValid(); err != nil {
			return err
		}
		*dst = ts.AsTime()
		return nil
	})
}

func appendSettings(b []byte, s domain.Settings) []byte {
	b = appendString(b, 1, s.Theme)
	b = appendString(b, 2, s.Color)
	b = appendString(b, 3, s.Font)
	return appendBool(b, 4, s.Private)
}

func decodeSettings(b []byte, s *domain.Settings) error {
	return decodeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case 1:
			return consumeString(typ, b, &s.Theme)
		case 2:
			return consumeString(typ, b, &s.Color)
		case 3:
			return consumeString(typ, b, &s.Font)
		case 4:
			return consumeBool(typ, b, &s.Private)
		}
		return 0, errSkip
	})
}

func appendUser(b []byte, u domain.User) []byte {
	b = appendString(b, 1, u.ID)
	b = appendString(b, 2, u.Username)
	b = appendString(b, 3, u.Email)
	b = appendTime(b, 4, u.CreatedAt)
	return appendMessage(b, 5, appendSettings(nil, u.Settings))
}

func decodeUser(b []byte, u *domain.User) error {
	return decodeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case 1:
			return consumeString(typ, b, &u.ID)
		case 2:
			return consumeString(typ, b, &u.Username)
		case 3:
			return consumeString(typ, b, &u.Email)
		case 4:
			return consumeTime(typ, b, &u.CreatedAt)
		case 5:
			return consumeMessage(typ, b, func(msg []byte) error { return decodeSettings(msg, &u.Settings) })
		}
		return 0, errSkip
	})
}

func appendEntry(b []byte, e domain.Entry) []byte {
	b = appendString(b, 1, e.ID)
	b = appendString(b, 2, e.UserID)
	b = appendString(b, 3, e.Title)
	b = appendString(b, 4, e.Content)
	b = appendString(b, 5, e.Mood)
	for _, t := range e.Tags {
		b = protowire.AppendTag(b, 6, protowire.BytesType)
		b = protowire.AppendString(b, t)
	}
	b = appendTime(b, 7, e.CreatedAt)
	b = appendTime(b, 8, e.UpdatedAt)
	return appendInt64(b, 9, e.Version)
}

func decodeEntry(b []byte, e *domain.Entry) error {
	return decodeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case 1:
			return consumeString(typ, b, &e.ID)
		case 2:
			return consumeString(typ, b, &e.UserID)
		case 3:
			return consumeString(typ, b, &e.Title)
		case 4:
			return consumeString(typ, b, &e.Content)
		case 5:
			return consumeString(typ, b, &e.Mood)
		case 6:
			return consumeRepeatedString(typ, b, &e.Tags)
		case 7:
			return consumeTime(typ, b, &e.CreatedAt)
		case 8:
			return consumeTime(typ, b, &e.UpdatedAt)
		case 9:
			return consumeInt64(typ, b, &e.Version)
		}
		return 0, errSkip
	})
}

func appendEntryInput(b []byte, in domain.EntryInput) []byte {
	b = appendString(b, 1, in.Title)
	b = appendString(b, 2, in.Content)
	b = appendString(b, 3, in.Mood)
	for _, t := range in.Tags {
		b = protowire.AppendTag(b, 4, protowire.BytesType)
		b = protowire.AppendString(b, t)
	}
	return b
}

func decodeEntryInput(b []byte, in *domain.EntryInput) error {
	return decodeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case 1:
			return consumeString(typ, b, &in.Title)
		case 2:
			return consumeString(typ, b, &in.Content)
		case 3:
			return consumeString(typ, b, &in.Mood)
		case 4:
			return consumeRepeatedString(typ, b, &in.Tags)
		}
		return 0, errSkip
	})
}

func appendChangeEvent(b []byte, ev *domain.ChangeEvent) []byte {
	b = appendString(b, 1, ev.Kind)
	return appendMessage(b, 2, appendEntry(nil, ev.Entry))
}

func decodeChangeEvent(b []byte, ev *domain.ChangeEvent) error {
	return decodeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case 1:
			return consumeString(typ, b, &ev.Kind)
		case 2:
			return consumeMessage(typ, b, func(msg []byte) error { return decodeEntry(msg, &ev.Entry) })
		}
		return 0, errSkip
	})
}
