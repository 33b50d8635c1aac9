package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/h2non/filetype"
	"github.com/h2non/filetype/types"
	gonanoid "github.com/matoous/go-nanoid/v2"
	config "github.com/woozysocial/woozy-api/configs"
	"github.com/woozysocial/woozy-api/internal/models"
)

type MediaService interface {
	Upload(ctx context.Context, file *multipart.FileHeader) (string, error)
}

type mediaService struct {
	cfg config.Config
}

func NewMediaService(cfg config.Config) MediaService {
	return &mediaService{cfg: cfg}
}

var allowedMediaTypes = map[string]struct{}{
	"jpg": {}, "jpeg": {}, "png": {}, "gif": {},
	"mp4": {}, "mov": {}, "webm": {},
}

func (s *mediaService) Upload(ctx context.Context, file *multipart.FileHeader) (string, error) {
	src, err := file.Open()
	if err != nil {
		slog.Info(err.Error())
		return "", err
	}
	defer src.Close()

	fileBytes, err := io.ReadAll(src)
	if err != nil {
		slog.Info(err.Error())
		return "", err
	}

	fileType, err := filetype.Match(fileBytes)
	if err != nil || fileType == types.Unknown {
		return "", models.Validationf("could not determine file type")
	}
	if _, ok := allowedMediaTypes[fileType.Extension]; !ok {
		return "", models.Validationf("file type %s is not allowed", fileType.Extension)
	}

	id, err := gonanoid.New()
	if err != nil {
		slog.Info(err.Error())
		return "", err
	}
	key := id + "." + fileType.Extension

	if err := s.putObject(ctx, key, fileBytes, fileType.MIME.Value); err != nil {
		return "", err
	}

	return strings.TrimRight(s.cfg.R2.PublicURL, "/") + "/" + key, nil
}

func (s *mediaService) client(ctx context.Context) (*s3.Client, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(s.cfg.R2.AccessKey, s.cfg.R2.SecretKey, "")),
		awsconfig.WithRegion("auto"),
	)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}

	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(fmt.Sprintf("https://%s.r2.cloudflarestorage.com", s.cfg.R2.AccountID))
	}), nil
}

func (s *mediaService) putObject(ctx context.Context, key string, file []byte, contentType string) error {
	r2Client, err := s.client(ctx)
	if err != nil {
		return err
	}

	input := &s3.PutObjectInput{
		Bucket:      aws.String(s.cfg.R2.BucketName),
		Key:         aws.String(key),
		Body:        bytes.NewReader(file),
		ContentType: aws.String(contentType),
	}

	if _, err := r2Client.PutObject(ctx, input); err != nil {
		slog.Info(err.Error())
		return err
	}

	return nil
}
