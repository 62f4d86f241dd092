package detector

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"strconv"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/rekognition"
	"github.com/aws/aws-sdk-go-v2/service/rekognition/types"
	"github.com/timmy/foodlens/internal/domain"
	_ "golang.org/x/image/webp"
)

// customLabelsAPI is the part of the Rekognition client the backend needs.
type customLabelsAPI interface {
	DetectCustomLabels(ctx context.Context, params *rekognition.DetectCustomLabelsInput, optFns ...func(*rekognition.Options)) (*rekognition.DetectCustomLabelsOutput, error)
}

// RekognitionBackend runs a Rekognition Custom Labels model version.
// The model's label names must be the integer class ids used by the lookup table.
type RekognitionBackend struct {
	client   customLabelsAPI
	modelARN string
}

// NewRekognitionBackend loads AWS configuration for the model version in cfg.ModelARN.
func NewRekognitionBackend(ctx context.Context, cfg *Config) (*RekognitionBackend, error) {
	if cfg.ModelARN == "" {
		return nil, errors.New("rekognition backend requires model_arn")
	}

	var opts []func(*awsconfig.LoadOptions) error
	if cfg.Region != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.Region))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("unable to load AWS config: %w", err)
	}
	if awsCfg.Region == "" {
		return nil, errors.New("rekognition backend requires an AWS region")
	}

	return newRekognitionBackend(rekognition.NewFromConfig(awsCfg), cfg.ModelARN), nil
}

func newRekognitionBackend(client customLabelsAPI, modelARN string) *RekognitionBackend {
	return &RekognitionBackend{client: client, modelARN: modelARN}
}

// Name returns the backend name.
func (b *RekognitionBackend) Name() string {
	return "rekognition"
}

// Detect sends the image bytes and converts relative boxes to pixels.
func (b *RekognitionBackend) Detect(ctx context.Context, imagePath string, threshold float64) ([]domain.DetectionRecord, error) {
	data, err := os.ReadFile(imagePath)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrImageNotFound, imagePath)
	}

	dims, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image header: %w", err)
	}

	out, err := b.client.DetectCustomLabels(ctx, &rekognition.DetectCustomLabelsInput{
		ProjectVersionArn: aws.String(b.modelARN),
		Image:             &types.Image{Bytes: data},
		MinConfidence:     aws.Float32(float32(threshold * 100)),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to detect custom labels: %w", err)
	}

	dets := make([]domain.DetectionRecord, 0, len(out.CustomLabels))
	for _, label := range out.CustomLabels {
		classID, err := strconv.Atoi(strings.TrimSpace(aws.ToString(label.Name)))
		if err != nil {
			continue
		}
		dets = append(dets, domain.DetectionRecord{
			ClassID:    classID,
			Confidence: float64(aws.ToFloat32(label.Confidence)) / 100,
			Box:        pixelBox(label.Geometry, dims.Width, dims.Height),
		})
	}
	return keepAbove(dets, threshold), nil
}

// pixelBox converts a ratio-based bounding box into x1, y1, x2, y2 pixels.
// Labels without geometry (image-level labels) get a zero box.
func pixelBox(geometry *types.Geometry, width, height int) domain.Box {
	if geometry == nil || geometry.BoundingBox == nil {
		return domain.Box{}
	}
	bb := geometry.BoundingBox
	w, h := float64(width), float64(height)
	left := float64(aws.ToFloat32(bb.Left))
	top := float64(aws.ToFloat32(bb.Top))
	return domain.Box{
		left * w,
		top * h,
		(left + float64(aws.ToFloat32(bb.Width))) * w,
		(top + float64(aws.ToFloat32(bb.Height))) * h,
	}
}
