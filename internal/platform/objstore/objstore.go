// Copyright (c) 2026 Toikana. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package objstore stores listing images on an S3-compatible object store.

The contract mirrors the storage collaborator the marketplace was designed
against: upload an object under a bucket-relative path, derive its public URL,
and remove a batch of paths.

Usage:

	store, err := objstore.NewS3(objstore.S3Config{...})
	url, err := store.Upload(ctx, "listing-images", "venue/abc.png", file, objstore.UploadOptions{...})
*/
package objstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
)

// ErrObjectExists is returned by Upload when upsert is disabled and the path is taken.
var ErrObjectExists = errors.New("objstore: object already exists")

// UploadOptions tunes a single upload.
type UploadOptions struct {
	ContentType  string
	CacheControl string
	Upsert       bool
}

// Store is the object storage contract used by the upload and catalog services.
type Store interface {
	Upload(context context.Context, bucket, path string, body io.Reader, options UploadOptions) (string, error)
	PublicURL(bucket, path string) string
	ObjectPath(bucket, publicURL string) (string, bool)
	Remove(context context.Context, bucket string, paths []string) error
}

// # S3 Implementation

// S3Config holds connection settings for an S3-compatible endpoint.
type S3Config struct {
	Region        string
	Endpoint      string
	AccessKey     string
	SecretKey     string
	PublicBaseURL string
}

// S3Store implements [Store] with aws-sdk-go.
type S3Store struct {
	client        s3iface.S3API
	uploader      *s3manager.Uploader
	publicBaseURL string
}

// NewS3 opens a session against the configured endpoint.
//
// Path-style addressing is forced so MinIO and R2 endpoints work unchanged.
func NewS3(cfg S3Config) (*S3Store, error) {
	awsConfig := &aws.Config{
		Region:           aws.String(cfg.Region),
		S3ForcePathStyle: aws.Bool(true),
	}
	if cfg.Endpoint != "" {
		awsConfig.Endpoint = aws.String(cfg.Endpoint)
	}
	if cfg.AccessKey != "" {
		awsConfig.Credentials = credentials.NewStaticCredentials(cfg.AccessKey, cfg.SecretKey, "")
	}

	sess, err := session.NewSession(awsConfig)
	if err != nil {
		return nil, fmt.Errorf("objstore: create session: %w", err)
	}

	base := cfg.PublicBaseURL
	if base == "" {
		base = cfg.Endpoint
	}

	return NewS3WithClient(s3.New(sess), base), nil
}

// NewS3WithClient wraps an existing S3 client.
func NewS3WithClient(client s3iface.S3API, publicBaseURL string) *S3Store {
	return &S3Store{
		client:        client,
		uploader:      s3manager.NewUploaderWithClient(client),
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
	}
}

// Upload stores body under bucket/path and returns the object path.
func (store *S3Store) Upload(context context.Context, bucket, path string, body io.Reader, options UploadOptions) (string, error) {
	path = strings.TrimLeft(path, "/")

	if !options.Upsert {
		exists, err := store.exists(context, bucket, path)
		if err != nil {
			return "", err
		}
		if exists {
			return "", ErrObjectExists
		}
	}

	input := &s3manager.UploadInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(path),
		Body:   body,
	}
	if options.ContentType != "" {
		input.ContentType = aws.String(options.ContentType)
	}
	if options.CacheControl != "" {
		input.CacheControl = aws.String(options.CacheControl)
	}

	if _, err := store.uploader.UploadWithContext(context, input); err != nil {
		return "", fmt.Errorf("objstore: upload %s/%s: %w", bucket, path, err)
	}

	return path, nil
}

// PublicURL returns the publicly readable URL of an object.
func (store *S3Store) PublicURL(bucket, path string) string {
	return PublicURL(store.publicBaseURL, bucket, path)
}

// ObjectPath recovers the object path from one of this store's public URLs.
func (store *S3Store) ObjectPath(bucket, publicURL string) (string, bool) {
	return ObjectPath(store.publicBaseURL, bucket, publicURL)
}

// Remove deletes the given paths in one batch. Missing objects are ignored.
func (store *S3Store) Remove(context context.Context, bucket string, paths []string) error {
	if len(paths) == 0 {
		return nil
	}

	objects := make([]*s3.ObjectIdentifier, 0, len(paths))
	for _, path := range paths {
		objects = append(objects, &s3.ObjectIdentifier{Key: aws.String(strings.TrimLeft(path, "/"))})
	}

	output, err := store.client.DeleteObjectsWithContext(context, &s3.DeleteObjectsInput{
		Bucket: aws.String(bucket),
		Delete: &s3.Delete{Objects: objects, Quiet: aws.Bool(true)},
	})
	if err != nil {
		return fmt.Errorf("objstore: remove from %s: %w", bucket, err)
	}

	if output != nil && len(output.Errors) > 0 {
		first := output.Errors[0]
		return fmt.Errorf("objstore: remove %s: %s", aws.StringValue(first.Key), aws.StringValue(first.Message))
	}

	return nil
}

func (store *S3Store) exists(context context.Context, bucket, path string) (bool, error) {
	_, err := store.client.HeadObjectWithContext(context, &s3.HeadObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(path),
	})
	if err == nil {
		return true, nil
	}

	var requestFailure awserr.RequestFailure
	if errors.As(err, &requestFailure) && requestFailure.StatusCode() == http.StatusNotFound {
		return false, nil
	}

	return false, fmt.Errorf("objstore: head %s/%s: %w", bucket, path, err)
}

// # URL Helpers

// PublicURL joins base, bucket and path into an object URL.
func PublicURL(base, bucket, path string) string {
	return strings.TrimRight(base, "/") + "/" + bucket + "/" + strings.TrimLeft(path, "/")
}

// ObjectPath recovers the bucket-relative path from a public URL produced by
// [PublicURL]. It returns false for URLs that point elsewhere.
func ObjectPath(base, bucket, publicURL string) (string, bool) {
	prefix := strings.TrimRight(base, "/") + "/" + bucket + "/"
	rest, ok := strings.CutPrefix(publicURL, prefix)
	if !ok || rest == "" {
		return "", false
	}
	return rest, true
}

// # In-Memory Implementation

// Memory keeps objects in a map. Used by tests and local runs without S3.
type Memory struct {
	mu            sync.Mutex
	publicBaseURL string
	objects       map[string][]byte
	types         map[string]string
}

// NewMemory creates an empty in-memory [Store].
func NewMemory(publicBaseURL string) *Memory {
	return &Memory{
		publicBaseURL: publicBaseURL,
		objects:       make(map[string][]byte),
		types:         make(map[string]string),
	}
}

// Upload implements [Store].
func (store *Memory) Upload(_ context.Context, bucket, path string, body io.Reader, options UploadOptions) (string, error) {
	data, err := io.ReadAll(body)
	if err != nil {
		return "", fmt.Errorf("objstore: read body: %w", err)
	}

	store.mu.Lock()
	defer store.mu.Unlock()

	key := bucket + "/" + strings.TrimLeft(path, "/")
	if _, exists := store.objects[key]; exists && !options.Upsert {
		return "", ErrObjectExists
	}

	store.objects[key] = data
	store.types[key] = options.ContentType
	return PublicURL(store.publicBaseURL, bucket, path), nil
}

// PublicURL implements [Store].
func (store *Memory) PublicURL(bucket, path string) string {
	return PublicURL(store.publicBaseURL, bucket, path)
}

// ObjectPath implements [Store].
func (store *Memory) ObjectPath(bucket, publicURL string) (string, bool) {
	return ObjectPath(store.publicBaseURL, bucket, publicURL)
}

// Remove implements [Store].
func (store *Memory) Remove(_ context.Context, bucket string, paths []string) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	for _, path := range paths {
		key := bucket + "/" + strings.TrimLeft(path, "/")
		delete(store.objects, key)
		delete(store.types, key)
	}
	return nil
}

// Object returns a stored object and its content type.
func (store *Memory) Object(bucket, path string) ([]byte, string, bool) {
	store.mu.Lock()
	defer store.mu.Unlock()

	key := bucket + "/" + strings.TrimLeft(path, "/")
	data, ok := store.objects[key]
	return data, store.types[key], ok
}

// Len returns the number of stored objects.
func (store *Memory) Len() int {
	store.mu.Lock()
	defer store.mu.Unlock()
	return len(store.objects)
}
