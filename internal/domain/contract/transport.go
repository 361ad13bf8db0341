package contract

import "context"

// Transport sends outbound chat messages. Implementations must be safe
// for concurrent use: the schedulers and the message loop all send.
type Transport interface {
	SendText(ctx context.Context, chatID, text string) error
	SendMentions(ctx context.Context, chatID, text string, mentions []string) error

	// SendSticker uploads the webp file at path as a sticker.
	SendSticker(ctx context.Context, chatID, path string) error
}
