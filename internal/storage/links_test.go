package storage

import (
	"context"
	"errors"
	"net/url"
	"testing"
	"time"

	"investportal/pkg/types"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePresigner struct {
	keys []string
	err  error
}

func (f *fakePresigner) PresignGetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
	if f.err != nil {
		return nil, f.err
	}

	opts := s3.PresignOptions{}
	for _, fn := range optFns {
		fn(&opts)
	}

	key := aws.ToString(params.Key)
	f.keys = append(f.keys, key)

	u := url.URL{
		Scheme:   "https",
		Host:     aws.ToString(params.Bucket) + ".s3.amazonaws.com",
		Path:     "/" + key,
		RawQuery: "X-Amz-Expires=" + opts.Expires.String(),
	}
	return &v4.PresignedHTTPRequest{URL: u.String(), Method: "GET"}, nil
}

func TestLinks_ForApplication(t *testing.T) {
	presigner := &fakePresigner{}
	links := NewLinksWithPresigner(presigner, "attachments", 15*time.Minute)

	app := &types.Application{
		Attachments: map[types.AttachmentSlot]string{
			types.SlotLicense:    "/investments/abc/license.pdf",
			types.SlotIDPassport: "investments/abc/passport.jpg",
			types.SlotLogo:       "https://cdn.example.com/logo.png",
		},
	}

	out, err := links.ForApplication(context.Background(), app)
	require.NoError(t, err)
	require.Len(t, out, 3)

	assert.Equal(t, types.SlotIDPassport, out[0].Slot)
	assert.Equal(t, types.SlotLicense, out[1].Slot)
	assert.Equal(t, types.SlotLogo, out[2].Slot)

	assert.Contains(t, out[0].URL, "attachments.s3.amazonaws.com/investments/abc/passport.jpg")
	assert.Contains(t, out[1].URL, "X-Amz-Expires=15m0s")
	assert.Equal(t, "https://cdn.example.com/logo.png", out[2].URL)
	assert.Equal(t, []string{"investments/abc/passport.jpg", "investments/abc/license.pdf"}, presigner.keys)
}

func TestLinks_NoBucket(t *testing.T) {
	links := NewLinksWithPresigner(&fakePresigner{}, "", time.Minute)

	_, err := links.URL(context.Background(), "key.pdf")
	assert.ErrorIs(t, err, ErrNoBucket)

	u, err := links.URL(context.Background(), "http://example.com/a.pdf")
	require.NoError(t, err)
	assert.Equal(t, "http://example.com/a.pdf", u)
}

func TestLinks_PresignErrorKeepsSlot(t *testing.T) {
	links := NewLinksWithPresigner(&fakePresigner{err: errors.New("no credentials")}, "b", time.Minute)

	out, err := links.ForApplication(context.Background(), &types.Application{
		Attachments: map[types.AttachmentSlot]string{types.SlotMOUSigned: "mou.pdf"},
	})
	assert.Error(t, err)
	require.Len(t, out, 1)
	assert.Empty(t, out[0].URL)
}
