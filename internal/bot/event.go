package bot

import "encoding/json"

// Event is the gateway webhook envelope.
type Event struct {
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload"`
}

// Message is the normalized inbound chat message.
type Message struct {
	From   string `json:"from"`
	Body   string `json:"body"`
	FromMe bool   `json:"fromMe"`
}

// unreadPayload is the alternate envelope some gateway versions emit:
// an unread-count notification wrapping the messages themselves. The
// interpreter extracts the first embedded message instead of treating
// the shape as an error.
type unreadPayload struct {
	Data []struct {
		LastMessage struct {
			Data struct {
				From struct {
					Serialized string `json:"_serialized"`
				} `json:"from"`
				Body string `json:"body"`
				ID   struct {
					FromMe bool `json:"fromMe"`
				} `json:"id"`
			} `json:"_data"`
		} `json:"lastMessage"`
	} `json:"data"`
}

// Normalize extracts the chat message from a webhook event, handling
// both the standard "message.any"/"message" envelope and the
// unread-count shape. It returns false for events that carry no
// processable message.
func Normalize(ev Event) (Message, bool) {
	switch ev.Event {
	case "message.any", "message":
		var msg Message
		if err := json.Unmarshal(ev.Payload, &msg); err != nil {
			return Message{}, false
		}
		return msg, true
	case "unread_count":
		var p unreadPayload
		if err := json.Unmarshal(ev.Payload, &p); err != nil || len(p.Data) == 0 {
			return Message{}, false
		}
		d := p.Data[0].LastMessage.Data
		if d.From.Serialized == "" {
			return Message{}, false
		}
		return Message{
			From:   d.From.Serialized,
			Body:   d.Body,
			FromMe: d.ID.FromMe,
		}, true
	}
	return Message{}, false
}
