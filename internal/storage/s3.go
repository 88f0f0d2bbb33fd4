// Package storage 文章附件的对象存储
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/google/uuid"

	"terminal-terrace/blog-service/config"
)

// UploadLink 预签名 POST 上传表单
type UploadLink struct {
	URL    string            `json:"url"`
	Fields map[string]string `json:"fields"`
}

// S3 兼容 S3 协议的对象存储
type S3 struct {
	client           *s3.Client
	presign          *s3.PresignClient
	bucket           string
	externalEndpoint string
	minSize          int64
	maxSize          int64
	linkTTL          time.Duration
}

// New 创建 S3 客户端
// 服务端使用 Endpoint 访问，签名链接与下载链接使用 ExternalEndpoint
func New(ctx context.Context, conf config.S3Config, upload config.UploadConfig) (*S3, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(conf.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(conf.AccessKey, conf.SecretKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("load s3 config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if conf.Endpoint != "" {
			o.BaseEndpoint = aws.String(conf.Endpoint)
		}
		o.UsePathStyle = conf.UsePathStyle
	})

	external := conf.ExternalEndpoint
	if external == "" {
		external = conf.Endpoint
	}
	presign := s3.NewPresignClient(client, s3.WithPresignClientFromClientOptions(func(o *s3.Options) {
		if external != "" {
			o.BaseEndpoint = aws.String(external)
		}
	}))

	return &S3{
		client:           client,
		presign:          presign,
		bucket:           conf.Bucket,
		externalEndpoint: strings.TrimRight(external, "/"),
		minSize:          upload.MinSize,
		maxSize:          upload.MaxSize,
		linkTTL:          upload.LinkTTL,
	}, nil
}

// ObjectKey 对象键 article_id/file_id
func ObjectKey(articleID, fileID uuid.UUID) string {
	return articleID.String() + "/" + fileID.String()
}

// DownloadURL 文件公开下载地址
func DownloadURL(endpoint, bucket string, articleID, fileID uuid.UUID) string {
	return fmt.Sprintf("%s/%s/%s", strings.TrimRight(endpoint, "/"), bucket, ObjectKey(articleID, fileID))
}

// UploadLink 生成带大小与类型约束的上传表单
func (s *S3) UploadLink(ctx context.Context, articleID, fileID uuid.UUID, contentType string) (*UploadLink, error) {
	req, err := s.presign.PresignPostObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(ObjectKey(articleID, fileID)),
		ContentType: aws.String(contentType),
	}, func(o *s3.PresignPostOptions) {
		o.Expires = s.linkTTL
		o.Conditions = []interface{}{
			[]interface{}{"content-length-range", s.minSize, s.maxSize},
			map[string]string{"Content-Type": contentType},
		}
	})
	if err != nil {
		return nil, fmt.Errorf("presign upload: %w", err)
	}

	fields := req.Values
	if fields == nil {
		fields = map[string]string{}
	}
	fields["Content-Type"] = contentType
	return &UploadLink{URL: req.URL, Fields: fields}, nil
}

// DownloadLink 文件下载地址
func (s *S3) DownloadLink(articleID, fileID uuid.UUID) string {
	return DownloadURL(s.externalEndpoint, s.bucket, articleID, fileID)
}

// Exists 对象是否已上传
func (s *S3) Exists(ctx context.Context, articleID, fileID uuid.UUID) (bool, error) {
	_, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(ObjectKey(articleID, fileID)),
	})
	if err == nil {
		return true, nil
	}
	var notFound *types.NotFound
	if errors.As(err, &notFound) {
		return false, nil
	}
	return false, fmt.Errorf("head object: %w", err)
}

// Remove 删除对象，对象不存在时不报错
func (s *S3) Remove(ctx context.Context, articleID, fileID uuid.UUID) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(ObjectKey(articleID, fileID)),
	})
	if err != nil {
		return fmt.Errorf("delete object: %w", err)
	}
	return nil
}
