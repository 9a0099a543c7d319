package api

import (
	"fmt"
)

// Request bounds. These guard the HTTP surface against oversized payloads;
// the game rules themselves live with the variants.
const (
	maxSessionNameLen = 128
	maxPlayerNameLen  = 64
	maxRosterSize     = 32
	maxActionIDLen    = 128
)

// ValidateCreateSessionRequest validates a session creation request and
// returns any validation errors
func ValidateCreateSessionRequest(req *CreateSessionRequest) error {
	if len(req.Name) > maxSessionNameLen {
		return fmt.Errorf("name too long (max %d characters)", maxSessionNameLen)
	}

	if len(req.Players) > maxRosterSize {
		return fmt.Errorf("too many players (max %d)", maxRosterSize)
	}
	for i, p := range req.Players {
		if p == "" {
			return fmt.Errorf("player %d has an empty name", i)
		}
		if len(p) > maxPlayerNameLen {
			return fmt.Errorf("player name %q too long (max %d characters)", p[:maxPlayerNameLen], maxPlayerNameLen)
		}
	}

	return nil
}

// ValidateRecordActionRequest validates an action submission
func ValidateRecordActionRequest(req *RecordActionRequest) error {
	if req.Game == "" {
		return fmt.Errorf("game is required")
	}
	if len(req.Action.ID) > maxActionIDLen {
		return fmt.Errorf("action id too long (max %d characters)", maxActionIDLen)
	}

	return nil
}
