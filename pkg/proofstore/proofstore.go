package proofstore

import (
	"context"
	"fmt"
	"io"

	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/cloudinary/cloudinary-go/v2/config"
)

// Client stores proof-of-payment images. Proofs are reviewed by humans,
// so uploads are eagerly transformed to a screen-friendly size.
type Client interface {
	Upload(ctx context.Context, file io.Reader, tenantID, paymentID string) (*Proof, error)
	IsConfigured() bool
}

// Proof identifies one stored proof image. FileID is what gets persisted
// on the payment; URL is for immediate display.
type Proof struct {
	FileID string
	URL    string
}

const proofEager = "q_auto,f_auto,w_1200,c_limit"

var eagerAsyncFalse = false

type clientImpl struct {
	cloudName string
	uploader  *uploader.API
}

func NewClient(cloudName, apiKey, apiSecret string) (Client, error) {
	if cloudName == "" || apiKey == "" || apiSecret == "" {
		return &clientImpl{}, nil
	}
	cfg, err := config.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, err
	}
	up, err := uploader.NewWithConfiguration(cfg)
	if err != nil {
		return nil, err
	}
	return &clientImpl{cloudName: cloudName, uploader: up}, nil
}

func (c *clientImpl) IsConfigured() bool {
	return c.uploader != nil
}

func (c *clientImpl) Upload(ctx context.Context, file io.Reader, tenantID, paymentID string) (*Proof, error) {
	if c.uploader == nil {
		return nil, fmt.Errorf("proof storage is not configured")
	}
	folder := "subpay/proofs/" + tenantID
	result, err := c.uploader.Upload(ctx, file, uploader.UploadParams{
		Folder:     folder,
		PublicID:   paymentID,
		Eager:      proofEager,
		EagerAsync: &eagerAsyncFalse,
	})
	if err != nil {
		return nil, err
	}
	return &Proof{FileID: result.PublicID, URL: result.SecureURL}, nil
}
