package memorial

import (
	"context"
	"io"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/ofrenda/pkg/model"
)

// UploadPhoto stores a profile photo and records its public URL on the
// memorial
func (u *UseCase) UploadPhoto(ctx context.Context, id model.MemorialID, r io.Reader) (string, error) {
	return u.uploadMedia(ctx, id, "photos/"+string(id), r, func(m *model.Memorial, url string) {
		m.PhotoURL = url
	})
}

// UploadAudio stores an audio message and records its public URL on the
// memorial
func (u *UseCase) UploadAudio(ctx context.Context, id model.MemorialID, r io.Reader) (string, error) {
	return u.uploadMedia(ctx, id, "audio/"+string(id), r, func(m *model.Memorial, url string) {
		m.AudioURL = url
	})
}

func (u *UseCase) uploadMedia(ctx context.Context, id model.MemorialID, key string, r io.Reader, assign func(*model.Memorial, string)) (string, error) {
	if u.storage == nil {
		return "", goerr.New("media storage is not configured")
	}

	memorial, err := u.repo.GetMemorial(ctx, id)
	if err != nil {
		return "", err
	}

	writer, err := u.storage.Put(ctx, key)
	if err != nil {
		return "", goerr.Wrap(err, "failed to create storage writer", goerr.V("key", key))
	}

	if _, err := io.Copy(writer, r); err != nil {
		writer.Close()
		return "", goerr.Wrap(err, "failed to write media", goerr.V("key", key))
	}

	if err := writer.Close(); err != nil {
		return "", goerr.Wrap(err, "failed to close storage writer", goerr.V("key", key))
	}

	url := u.storage.PublicURL(key)
	assign(memorial, url)
	memorial.UpdatedAt = time.Now()

	if err := u.repo.PutMemorial(ctx, memorial); err != nil {
		return "", goerr.Wrap(err, "failed to update memorial media url", goerr.V("memorial_id", id))
	}

	return url, nil
}
