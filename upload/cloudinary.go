// Package upload talks to the remote asset store. Uploaded assets are
// durable before the caller sees a URL; nothing here deletes them.
package upload

import (
	"context"
	"errors"
	"fmt"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/google/uuid"
)

// Uploader stores one encoded asset and returns its public URL.
type Uploader interface {
	Upload(ctx context.Context, dataURI string) (string, error)
}

// CloudinaryStore uploads data URIs to Cloudinary under a fixed folder.
type CloudinaryStore struct {
	cld    *cloudinary.Cloudinary
	folder string
}

// NewCloudinaryStore builds a store from a CLOUDINARY_URL-style credential
// string. Assets land in the given folder ("blog" in production).
func NewCloudinaryStore(credentialsURL, folder string) (*CloudinaryStore, error) {
	cld, err := cloudinary.NewFromURL(credentialsURL)
	if err != nil {
		return nil, fmt.Errorf("cloudinary config: %w", err)
	}
	return &CloudinaryStore{cld: cld, folder: folder}, nil
}

func (s *CloudinaryStore) Upload(ctx context.Context, dataURI string) (string, error) {
	res, err := s.cld.Upload.Upload(ctx, dataURI, uploader.UploadParams{
		Folder:   s.folder,
		PublicID: uuid.NewString(),
	})
	if err != nil {
		return "", err
	}
	if res.Error.Message != "" {
		return "", errors.New(res.Error.Message)
	}
	if res.SecureURL == "" {
		return "", errors.New("asset store returned no URL")
	}
	return res.SecureURL, nil
}
