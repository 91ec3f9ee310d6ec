package moderation

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/rekognition"
	rekognitiontypes "github.com/aws/aws-sdk-go-v2/service/rekognition/types"

	"github.com/naver-ai-trip/backend-trip-sub000/internal/models"
)

// RekognitionDetector is an alternate moderation backend using AWS
// Rekognition with byte payloads (no S3 dependency). It exists for
// deployments outside the NAVER cloud.
type RekognitionDetector struct {
	client *rekognition.Client
}

// NewRekognitionDetector creates a detector using ambient AWS
// credentials/profile.
func NewRekognitionDetector(ctx context.Context, region string) (*RekognitionDetector, error) {
	loadOptions := []func(*awsconfig.LoadOptions) error{}
	trimmedRegion := strings.TrimSpace(region)
	if trimmedRegion != "" {
		loadOptions = append(loadOptions, awsconfig.WithRegion(trimmedRegion))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, loadOptions...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	return &RekognitionDetector{
		client: rekognition.NewFromConfig(cfg),
	}, nil
}

// Detect calls DetectModerationLabels and folds the label taxonomy into
// the shared category scores. Rekognition reports confidences on a 0-100
// scale; they are rescaled to [0,1], and the normal score is derived as
// the complement of the strongest unsafe signal so the verdict invariant
// holds.
func (d *RekognitionDetector) Detect(ctx context.Context, src Source) (*models.ModerationVerdict, error) {
	if len(src.Bytes) == 0 {
		return nil, fmt.Errorf("image bytes are required")
	}

	output, err := d.client.DetectModerationLabels(ctx, &rekognition.DetectModerationLabelsInput{
		Image: &rekognitiontypes.Image{
			Bytes: src.Bytes,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("rekognition detect moderation labels failed: %w", err)
	}

	var adult, violence float64
	for _, label := range output.ModerationLabels {
		confidence := 0.0
		if label.Confidence != nil {
			confidence = float64(*label.Confidence) / 100
		}

		switch rekognitionCategory(aws.ToString(label.Name), aws.ToString(label.ParentName)) {
		case models.CategoryAdult:
			if confidence > adult {
				adult = confidence
			}
		case models.CategoryViolence:
			if confidence > violence {
				violence = confidence
			}
		}
	}

	worst := adult
	if violence > worst {
		worst = violence
	}

	scores := map[string]float64{
		models.CategoryNormal:   1 - worst,
		models.CategoryAdult:    adult,
		models.CategoryViolence: violence,
	}

	verdict := models.NewModerationVerdict(scores, topCategoryReason(scores))
	return &verdict, nil
}

func rekognitionCategory(name, parent string) string {
	for _, candidate := range []string{name, parent} {
		switch candidate {
		case "Explicit Nudity", "Explicit", "Suggestive", "Non-Explicit Nudity of Intimate parts and Kissing":
			return models.CategoryAdult
		case "Violence", "Visually Disturbing", "Graphic Violence":
			return models.CategoryViolence
		}
	}
	return ""
}
