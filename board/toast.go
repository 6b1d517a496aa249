package board

import (
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type ToastKind string

const (
	ToastSuccess ToastKind = "success"
	ToastError   ToastKind = "error"
	ToastInfo    ToastKind = "info"
)

type Toast struct {
	ID      string
	Kind    ToastKind
	Title   string
	Message string
}

func NewToast(kind ToastKind, title, message string) Toast {
	return Toast{ID: uuid.NewString(), Kind: kind, Title: title, Message: message}
}

// Toaster shows short-lived notifications. Push must not block.
type Toaster interface {
	Push(Toast)
}

// ChannelToaster delivers toasts on a buffered channel and drops them when
// nobody is reading.
type ChannelToaster struct {
	ch chan Toast
}

func NewChannelToaster(buffer int) *ChannelToaster {
	if buffer < 1 {
		buffer = 1
	}
	return &ChannelToaster{ch: make(chan Toast, buffer)}
}

func (t *ChannelToaster) Push(toast Toast) {
	select {
	case t.ch <- toast:
	default:
		log.Debug().Str("title", toast.Title).Msg("toast dropped")
	}
}

func (t *ChannelToaster) C() <-chan Toast {
	return t.ch
}

var _ Toaster = (*ChannelToaster)(nil)

type discardToaster struct{}

func (discardToaster) Push(Toast) {}
