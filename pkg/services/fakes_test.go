package services

import (
	"context"

	"github.com/dskvich/video-downloader-bot/pkg/domain"
)

type recordingSender struct {
	responses []domain.Response
	err       error
}

func (r *recordingSender) SendResponse(_ context.Context, response *domain.Response) error {
	if r.err != nil {
		return r.err
	}
	r.responses = append(r.responses, *response)
	return nil
}

type fakeDownloader struct {
	data  []byte
	err   error
	calls []string
}

func (f *fakeDownloader) Download(_ context.Context, url string) ([]byte, error) {
	f.calls = append(f.calls, url)
	return f.data, f.err
}
