package server

import (
	"errors"
	"sync"
)

var errNoInbound = errors.New("no inbound traffic")

type nopTransport struct{}

func (nopTransport) SendText(string) error        { return nil }
func (nopTransport) ReceiveText() (string, error) { return "", errNoInbound }

type recordingTransport struct {
	mu   sync.Mutex
	msgs []string
}

func (r *recordingTransport) SendText(text string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.msgs = append(r.msgs, text)
	return nil
}

func (r *recordingTransport) ReceiveText() (string, error) { return "", errNoInbound }

func (r *recordingTransport) sent() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.msgs...)
}
