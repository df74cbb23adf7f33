package api

import (
	"github.com/dmitrijs2005/moodiary/internal/domain"
	"google.golang.org/protobuf/encoding/protowire"
)

func (*Empty) appendWire(b []byte) []byte { return b }
func (*Empty) decodeWire(b []byte) error  { return decodeFields(b, skipAll) }

func (*PingRequest) appendWire(b []byte) []byte { return b }
func (*PingRequest) decodeWire(b []byte) error  { return decodeFields(b, skipAll) }

func (*ListEntriesRequest) appendWire(b []byte) []byte { return b }
func (*ListEntriesRequest) decodeWire(b []byte) error  { return decodeFields(b, skipAll) }

func (m *PingResponse) appendWire(b []byte) []byte {
	return appendString(b, 1, m.Status)
}

func (m *PingResponse) decodeWire(b []byte) error {
	return decodeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		if num == 1 {
			return consumeString(typ, b, &m.Status)
		}
		return 0, errSkip
	})
}

func (m *RegisterRequest) appendWire(b []byte) []byte {
	b = appendString(b, 1, m.Username)
	b = appendString(b, 2, m.Email)
	return appendString(b, 3, m.Password)
}

func (m *RegisterRequest) decodeWire(b []byte) error {
	return decodeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case 1:
			return consumeString(typ, b, &m.Username)
		case 2:
			return consumeString(typ, b, &m.Email)
		case 3:
			return consumeString(typ, b, &m.Password)
		}
		return 0, errSkip
	})
}

func (m *LoginRequest) appendWire(b []byte) []byte {
	b = appendString(b, 1, m.Email)
	return appendString(b, 2, m.Password)
}

func (m *LoginRequest) decodeWire(b []byte) error {
	return decodeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case 1:
			return consumeString(typ, b, &m.Email)
		case 2:
			return consumeString(typ, b, &m.Password)
		}
		return 0, errSkip
	})
}

func (m *AuthResponse) appendWire(b []byte) []byte {
	b = appendString(b, 1, m.AccessToken)
	b = appendString(b, 2, m.RefreshToken)
	return appendMessage(b, 3, appendUser(nil, m.User))
}

func (m *AuthResponse) decodeWire(b []byte) error {
	return decodeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case 1:
			return consumeString(typ, b, &m.AccessToken)
		case 2:
			return consumeString(typ, b, &m.RefreshToken)
		case 3:
			return consumeMessage(typ, b, func(msg []byte) error { return decodeUser(msg, &m.User) })
		}
		return 0, errSkip
	})
}

func (m *RefreshTokenRequest) appendWire(b []byte) []byte {
	return appendString(b, 1, m.RefreshToken)
}

func (m *RefreshTokenRequest) decodeWire(b []byte) error {
	return decodeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		if num == 1 {
			return consumeString(typ, b, &m.RefreshToken)
		}
		return 0, errSkip
	})
}

func (m *RefreshTokenResponse) appendWire(b []byte) []byte {
	b = appendString(b, 1, m.AccessToken)
	return appendString(b, 2, m.RefreshToken)
}

func (m *RefreshTokenResponse) decodeWire(b []byte) error {
	return decodeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case 1:
			return consumeString(typ, b, &m.AccessToken)
		case 2:
			return consumeString(typ, b, &m.RefreshToken)
		}
		return 0, errSkip
	})
}

func (m *LogoutRequest) appendWire(b []byte) []byte {
	return appendString(b, 1, m.RefreshToken)
}

func (m *LogoutRequest) decodeWire(b []byte) error {
	return decodeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		if num == 1 {
			return consumeString(typ, b, &m.RefreshToken)
		}
		return 0, errSkip
	})
}

func (m *ProfileResponse) appendWire(b []byte) []byte {
	return appendMessage(b, 1, appendUser(nil, m.User))
}

func (m *ProfileResponse) decodeWire(b []byte) error {
	return decodeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		if num == 1 {
			return consumeMessage(typ, b, func(msg []byte) error { return decodeUser(msg, &m.User) })
		}
		return 0, errSkip
	})
}

func (m *UpdateSettingsRequest) appendWire(b []byte) []byte {
	return appendMessage(b, 1, appendSettings(nil, m.Settings))
}

func (m *UpdateSettingsRequest) decodeWire(b []byte) error {
	return decodeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		if num == 1 {
			return consumeMessage(typ, b, func(msg []byte) error { return decodeSettings(msg, &m.Settings) })
		}
		return 0, errSkip
	})
}

func (m *ListEntriesResponse) appendWire(b []byte) []byte {
	for _, e := range m.Entries {
		b = appendMessage(b, 1, appendEntry(nil, e))
	}
	return appendInt64(b, 2, m.Version)
}

func (m *ListEntriesResponse) decodeWire(b []byte) error {
	return decodeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case 1:
			return consumeMessage(typ, b, func(msg []byte) error {
				m.Entries = append(m.Entries, domain.Entry{})
				return decodeEntry(msg, &m.Entries[len(m.Entries)-1])
			})
		case 2:
			return consumeInt64(typ, b, &m.Version)
		}
		return 0, errSkip
	})
}

func (m *GetEntryRequest) appendWire(b []byte) []byte {
	return appendString(b, 1, m.ID)
}

func (m *GetEntryRequest) decodeWire(b []byte) error {
	return decodeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		if num == 1 {
			return consumeString(typ, b, &m.ID)
		}
		return 0, errSkip
	})
}

func (m *EntryResponse) appendWire(b []byte) []byte {
	return appendMessage(b, 1, appendEntry(nil, m.Entry))
}

func (m *EntryResponse) decodeWire(b []byte) error {
	return decodeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		if num == 1 {
			return consumeMessage(typ, b, func(msg []byte) error { return decodeEntry(msg, &m.Entry) })
		}
		return 0, errSkip
	})
}

func appendIDInput(b []byte, id string, in domain.EntryInput) []byte {
	b = appendString(b, 1, id)
	return appendMessage(b, 2, appendEntryInput(nil, in))
}

func decodeIDInput(b []byte, id *string, in *domain.EntryInput) error {
	return decodeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case 1:
			return consumeString(typ, b, id)
		case 2:
			return consumeMessage(typ, b, func(msg []byte) error { return decodeEntryInput(msg, in) })
		}
		return 0, errSkip
	})
}

func (m *CreateEntryRequest) appendWire(b []byte) []byte { return appendIDInput(b, m.ID, m.Input) }
func (m *CreateEntryRequest) decodeWire(b []byte) error  { return decodeIDInput(b, &m.ID, &m.Input) }
func (m *UpdateEntryRequest) appendWire(b []byte) []byte { return appendIDInput(b, m.ID, m.Input) }
func (m *UpdateEntryRequest) decodeWire(b []byte) error  { return decodeIDInput(b, &m.ID, &m.Input) }

func (m *DeleteEntryRequest) appendWire(b []byte) []byte {
	return appendString(b, 1, m.ID)
}

func (m *DeleteEntryRequest) decodeWire(b []byte) error {
	return decodeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		if num == 1 {
			return consumeString(typ, b, &m.ID)
		}
		return 0, errSkip
	})
}

func (m *DeleteEntryResponse) appendWire(b []byte) []byte {
	b = appendString(b, 1, m.ID)
	return appendInt64(b, 2, m.Version)
}

func (m *DeleteEntryResponse) decodeWire(b []byte) error {
	return decodeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case 1:
			return consumeString(typ, b, &m.ID)
		case 2:
			return consumeInt64(typ, b, &m.Version)
		}
		return 0, errSkip
	})
}

func (m *ArchiveResponse) appendWire(b []byte) []byte {
	b = appendString(b, 1, m.Key)
	b = appendString(b, 2, m.URL)
	return appendInt64(b, 3, int64(m.Count))
}

func (m *ArchiveResponse) decodeWire(b []byte) error {
	return decodeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case 1:
			return consumeString(typ, b, &m.Key)
		case 2:
			return consumeString(typ, b, &m.URL)
		case 3:
			var count int64
			n, err := consumeInt64(typ, b, &count)
			m.Count = int(count)
			return n, err
		}
		return 0, errSkip
	})
}

func (m *SubscribeRequest) appendWire(b []byte) []byte {
	return appendInt64(b, 1, m.SinceVersion)
}

func (m *SubscribeRequest) decodeWire(b []byte) error {
	return decodeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		if num == 1 {
			return consumeInt64(typ, b, &m.SinceVersion)
		}
		return 0, errSkip
	})
}
