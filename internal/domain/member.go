// Package domain contains entity without logic, just meta-data
package domain

import "errors"

const MaxDisplayNameLen = 36

var (
	ErrNameEmpty   = errors.New("display name empty")
	ErrNameTooLong = errors.New("display name too long")
)

// Member is what a joined connection looks like to the rest of the room:
// a display name plus client-supplied mute hints. The hints are display
// metadata only, nothing enforces them server-side.
type Member struct {
	Name      string `json:"name"`
	MuteAudio bool   `json:"mute_audio"`
	MuteVideo bool   `json:"mute_video"`
}

// NewMember avoids raw literals in adapters and keeps construction obvious.
func NewMember(name string, muteAudio, muteVideo bool) (Member, error) {
	if len(name) == 0 {
		return Member{}, ErrNameEmpty
	}
	if len(name) > MaxDisplayNameLen {
		return Member{}, ErrNameTooLong
	}
	return Member{Name: name, MuteAudio: muteAudio, MuteVideo: muteVideo}, nil
}
