package gateway

import (
	"context"

	"github.com/google/uuid"
)

// ReceiptURL returns the public URL for a stored receipt path, or the empty
// string when no path is set.
func (g *Gateway) ReceiptURL(path string) string {
	if path == "" {
		return ""
	}
	return g.receipts.PublicURL(path)
}

// UploadReceipt stores a receipt for a user and returns the stored path.
func (g *Gateway) UploadReceipt(ctx context.Context, userID uuid.UUID, receipt ReceiptUpload) (string, error) {
	path := g.receiptPath(userID, receipt.Filename)
	if err := g.receipts.Upload(ctx, path, receipt.ContentType, receipt.Body); err != nil {
		return "", err
	}
	return path, nil
}
