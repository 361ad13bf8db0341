// Package wa is the thin client for the WhatsApp web gateway. The
// gateway owns the session (pairing, auth, media upload); this client
// only exchanges JSON frames over a single websocket.
package wa

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/toogather/wabot/internal/domain/whatsapp"
)

type frame struct {
	Type     string   `json:"type"`
	ChatID   string   `json:"chatId,omitempty"`
	Sender   string   `json:"sender,omitempty"`
	Text     string   `json:"text,omitempty"`
	IsGroup  bool     `json:"isGroup,omitempty"`
	Mentions []string `json:"mentions,omitempty"`
	Media    string   `json:"media,omitempty"`
	MimeType string   `json:"mimetype,omitempty"`
	Filename string   `json:"filename,omitempty"`
	Sticker  bool     `json:"sendMediaAsSticker,omitempty"`
}

type Client struct {
	conn *websocket.Conn

	writeMu  sync.Mutex
	messages chan whatsapp.Message
	done     chan struct{}
}

// Dial connects to the gateway and starts reading inbound messages.
func Dial(ctx context.Context, gatewayURL, token string) (*Client, error) {
	header := http.Header{}
	if token != "" {
		header.Set("Authorization", "Bearer "+token)
	}

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, gatewayURL, header)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to gateway: %w", err)
	}

	c := &Client{
		conn:     conn,
		messages: make(chan whatsapp.Message, 64),
		done:     make(chan struct{}),
	}
	go c.readLoop()
	return c, nil
}

// Messages yields inbound chat messages. The channel closes when the
// connection drops or Close is called.
func (c *Client) Messages() <-chan whatsapp.Message {
	return c.messages
}

func (c *Client) readLoop() {
	defer close(c.messages)

	for {
		var f frame
		if err := c.conn.ReadJSON(&f); err != nil {
			select {
			case <-c.done:
			default:
				log.Printf("gateway read failed: %v", err)
			}
			return
		}
		if f.Type != "message" {
			continue
		}
		c.messages <- whatsapp.Message{
			ChatID:   f.ChatID,
			Sender:   f.Sender,
			Body:     f.Text,
			IsGroup:  f.IsGroup,
			Mentions: f.Mentions,
		}
	}
}

func (c *Client) SendText(ctx context.Context, chatID, text string) error {
	return c.send(ctx, frame{Type: "text", ChatID: chatID, Text: text})
}

func (c *Client) SendMentions(ctx context.Context, chatID, text string, mentions []string) error {
	return c.send(ctx, frame{Type: "text", ChatID: chatID, Text: text, Mentions: mentions})
}

// SendSticker uploads the webp file at path as a sticker.
func (c *Client) SendSticker(ctx context.Context, chatID, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read sticker file: %w", err)
	}

	return c.send(ctx, frame{
		Type:     "media",
		ChatID:   chatID,
		Media:    base64.StdEncoding.EncodeToString(data),
		MimeType: "image/webp",
		Sticker:  true,
	})
}

func (c *Client) send(ctx context.Context, f frame) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(f)
	if err != nil {
		return fmt.Errorf("failed to encode frame: %w", err)
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	if deadline, ok := ctx.Deadline(); ok {
		_ = c.conn.SetWriteDeadline(deadline)
	}
	if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		return fmt.Errorf("failed to send frame: %w", err)
	}
	return nil
}

func (c *Client) Close() error {
	close(c.done)
	return c.conn.Close()
}
