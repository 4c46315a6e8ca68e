package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"investportal/pkg/types"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

var ErrNoBucket = errors.New("attachment bucket not configured")

// Presigner is the part of s3.PresignClient used to build download links.
type Presigner interface {
	PresignGetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

// Links turns the stored-file references on an application into URLs an
// admin can open. References that are already URLs pass through.
type Links struct {
	presigner Presigner
	bucket    string
	ttl       time.Duration
}

func NewLinks(client *s3.Client, bucket string, ttl time.Duration) *Links {
	return NewLinksWithPresigner(s3.NewPresignClient(client), bucket, ttl)
}

func NewLinksWithPresigner(presigner Presigner, bucket string, ttl time.Duration) *Links {
	return &Links{
		presigner: presigner,
		bucket:    bucket,
		ttl:       ttl,
	}
}

// URL returns a time-limited GET link for the reference.
func (l *Links) URL(ctx context.Context, ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if strings.HasPrefix(ref, "https://") || strings.HasPrefix(ref, "http://") {
		return ref, nil
	}
	if l.bucket == "" || l.presigner == nil {
		return "", ErrNoBucket
	}

	req, err := l.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(l.bucket),
		Key:    aws.String(strings.TrimPrefix(ref, "/")),
	}, s3.WithPresignExpires(l.ttl))
	if err != nil {
		return "", fmt.Errorf("failed to presign attachment %s: %w", ref, err)
	}

	return req.URL, nil
}

type AttachmentLink struct {
	Slot types.AttachmentSlot
	Ref  string
	URL  string
}

// ForApplication returns a link per populated slot, in the fixed slot order.
// A slot whose link cannot be built is returned with an empty URL.
func (l *Links) ForApplication(ctx context.Context, app *types.Application) ([]AttachmentLink, error) {
	out := make([]AttachmentLink, 0, len(app.Attachments))

	var errs []error
	for _, slot := range types.AllAttachmentSlots {
		ref, ok := app.Attachments[slot]
		if !ok || ref == "" {
			continue
		}

		link := AttachmentLink{Slot: slot, Ref: ref}
		url, err := l.URL(ctx, ref)
		if err != nil {
			errs = append(errs, err)
		} else {
			link.URL = url
		}
		out = append(out, link)
	}

	return out, errors.Join(errs...)
}
