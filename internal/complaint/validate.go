package complaint

import (
	"math"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/ZP-ING/reportebuenaventura-backend/internal/domain"
)

const (
	MaxTitleLength         = 200
	MaxDescriptionLength   = 5000
	MaxAddressLength       = 300
	MaxCommentLength       = 2000
	MaxRatingCommentLength = 1000
	MaxImages              = 5
	MaxImageURLLength      = 2048
)

func validateCreate(in CreateInput) (CreateInput, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	in.Location.Address = strings.TrimSpace(in.Location.Address)

	if in.Title == "" {
		return in, domain.Invalid("title", "is required")
	}
	if utf8.RuneCountInString(in.Title) > MaxTitleLength {
		return in, domain.Invalid("title", "must be at most %d characters", MaxTitleLength)
	}
	if in.Description == "" {
		return in, domain.Invalid("description", "is required")
	}
	if utf8.RuneCountInString(in.Description) > MaxDescriptionLength {
		return in, domain.Invalid("description", "must be at most %d characters", MaxDescriptionLength)
	}
	if err := validateLocation(in.Location); err != nil {
		return in, err
	}
	images, err := validateImages(in.Images)
	if err != nil {
		return in, err
	}
	in.Images = images
	return in, nil
}

// validateImages trims the photo URLs and drops blanks. Only absolute
// http(s) URLs are accepted; uploads happen before the report is sent.
func validateImages(images []string) ([]string, error) {
	out := make([]string, 0, len(images))
	for _, raw := range images {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		if len(raw) > MaxImageURLLength {
			return nil, domain.Invalid("images", "URLs must be at most %d characters", MaxImageURLLength)
		}
		u, err := url.Parse(raw)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return nil, domain.Invalid("images", "%q is not an http or https URL", raw)
		}
		out = append(out, raw)
	}
	if len(out) > MaxImages {
		return nil, domain.Invalid("images", "at most %d images are allowed", MaxImages)
	}
	return out, nil
}

func validateLocation(loc domain.Location) error {
	if math.IsNaN(loc.Latitude) || loc.Latitude < -90 || loc.Latitude > 90 {
		return domain.Invalid("location.lat", "must be between -90 and 90")
	}
	if math.IsNaN(loc.Longitude) || loc.Longitude < -180 || loc.Longitude > 180 {
		return domain.Invalid("location.lng", "must be between -180 and 180")
	}
	if utf8.RuneCountInString(loc.Address) > MaxAddressLength {
		return domain.Invalid("location.address", "must be at most %d characters", MaxAddressLength)
	}
	return nil
}

func validateCommentText(text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", domain.Invalid("text", "is required")
	}
	if utf8.RuneCountInString(text) > MaxCommentLength {
		return "", domain.Invalid("text", "must be at most %d characters", MaxCommentLength)
	}
	return text, nil
}

func validateRatingComment(comment string) (string, error) {
	comment = strings.TrimSpace(comment)
	if utf8.RuneCountInString(comment) > MaxRatingCommentLength {
		return "", domain.Invalid("comment", "must be at most %d characters", MaxRatingCommentLength)
	}
	return comment, nil
}
