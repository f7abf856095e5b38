package store

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// fakeS3 answers the subset of the S3 REST API the store uses.
type fakeS3 struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func (f *fakeS3) RoundTrip(req *http.Request) (*http.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	// Path-style: /bucket/key...
	parts := strings.SplitN(strings.TrimPrefix(req.URL.Path, "/"), "/", 2)
	key := ""
	if len(parts) == 2 {
		key = parts[1]
	}

	switch req.Method {
	case http.MethodPut:
		body, _ := io.ReadAll(req.Body)
		if strings.Contains(req.Header.Get("Content-Encoding"), "aws-chunked") || req.Header.Get("X-Amz-Decoded-Content-Length") != "" {
			body = decodeAWSChunked(body)
		}
		f.objects[key] = body
		return response(http.StatusOK, nil), nil
	case http.MethodGet:
		body, ok := f.objects[key]
		if !ok {
			return response(http.StatusNotFound, []byte(`<?xml version="1.0" encoding="UTF-8"?><Error><Code>NoSuchKey</Code><Message>missing</Message></Error>`)), nil
		}
		resp := response(http.StatusOK, body)
		resp.Header.Set("Content-Length", strconv.Itoa(len(body)))
		return resp, nil
	case http.MethodDelete:
		delete(f.objects, key)
		return response(http.StatusNoContent, nil), nil
	}
	return response(http.StatusNotImplemented, nil), nil
}

func response(status int, body []byte) *http.Response {
	return &http.Response{
		StatusCode: status,
		Header:     http.Header{"Content-Type": {"application/xml"}},
		Body:       io.NopCloser(bytes.NewReader(body)),
	}
}

// decodeAWSChunked strips aws-chunked framing: "<hex>[;ext]\r\n<data>\r\n ... 0\r\n<trailers>".
func decodeAWSChunked(b []byte) []byte {
	r := bufio.NewReader(bytes.NewReader(b))
	var out bytes.Buffer
	for {
		line, err := r.ReadString('\n')
		if err != nil {
			return b
		}
		sizeHex := strings.TrimSpace(strings.SplitN(line, ";", 2)[0])
		n, err := strconv.ParseInt(sizeHex, 16, 64)
		if err != nil {
			return b
		}
		if n == 0 {
			return out.Bytes()
		}
		if _, err := io.CopyN(&out, r, n); err != nil {
			return b
		}
		r.ReadString('\n')
	}
}

func newFakeS3Store(t *testing.T) (*S3, *fakeS3) {
	t.Helper()
	fake := &fakeS3{objects: make(map[string][]byte)}
	cfg, err := config.LoadDefaultConfig(context.Background(),
		config.WithRegion("us-east-1"),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider("AKIA", "SECRET", "")),
	)
	if err != nil {
		t.Fatalf("loading aws config: %v", err)
	}
	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String("https://mock.s3.local")
		o.HTTPClient = &http.Client{Transport: fake}
		o.UsePathStyle = true
	})
	return NewS3FromClient(client, "inventario", "snapshots"), fake
}

func TestS3KV(t *testing.T) {
	kv, _ := newFakeS3Store(t)
	exerciseKV(t, kv)
}

func TestS3KVUsesPrefix(t *testing.T) {
	kv, fake := newFakeS3Store(t)

	if err := kv.Put(context.Background(), "inventario.state", []byte("{}")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if _, ok := fake.objects["snapshots/inventario.state"]; !ok {
		t.Errorf("expected object under prefix, have %v", fake.objects)
	}
}

func TestNewS3RequiresBucket(t *testing.T) {
	if _, err := NewS3(context.Background(), S3Config{}); err == nil {
		t.Error("expected error for missing bucket")
	}
}
