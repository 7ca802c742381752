package handlers

import (
	"github.com/corredoraunidad/APP-UNIDAD-sub001/internal/application/announcement/dto"
)

// PublishAnnouncementResponse reports the published announcement and what the
// fan-out did.
type PublishAnnouncementResponse struct {
	Announcement *dto.AnnouncementResponse `json:"announcement"`
	Fanout       *dto.FanoutResult         `json:"fanout"`
}

// BadgeMessage is the only frame the badge websocket sends.
type BadgeMessage struct {
	Type  string `json:"type"`
	Count int64  `json:"count"`
}

const badgeMessageType = "badge"
