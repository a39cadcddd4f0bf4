package services

import (
	"context"
	"fmt"
	"log"
	"sort"

	"github.com/google/uuid"

	"kayipbul/internal/models/db_models"
	"kayipbul/internal/models/response_models"
	"kayipbul/internal/repositories"
	"kayipbul/pkg/utils"
)

type NotificationServiceInterface interface {
	NotificationCount(ctx context.Context, userID uuid.UUID, viewed map[string]struct{}) (int, error)
	Notifications(ctx context.Context, userID uuid.UUID, limit int) ([]response_models.Notification, error)
}

func NewNotificationService(
	features FeatureServiceInterface,
	matching MatchingServiceInterface,
	reportRepo repositories.ReportRepositoryInterface,
) NotificationServiceInterface {
	return &NotificationService{
		features:   features,
		matching:   matching,
		reportRepo: reportRepo,
	}
}

// NotificationService derives match notifications live from the current
// report set instead of reading persisted match rows, so a resolved or
// edited report drops out immediately.
type NotificationService struct {
	features   FeatureServiceInterface
	matching   MatchingServiceInterface
	reportRepo repositories.ReportRepositoryInterface
}

// matchHit pairs an own report with one of its surfaced candidates.
type matchHit struct {
	own       *db_models.Report
	candidate MatchCandidate
}

// collect groups the user's active reports by extracted category, runs the
// match search per report, keeps only candidates whose own category equals
// the grouping category and deduplicates candidates across groups.
// Reports without a category never generate notifications.
func (n *NotificationService) collect(ctx context.Context, userID uuid.UUID) ([]matchHit, error) {
	ownReports, err := n.reportRepo.FindActiveByUser(ctx, userID)
	if err != nil {
		log.Printf("Error loading reports for user %s: %v", userID, err)
		return nil, utils.ErrDatabaseError
	}

	byCategory := make(map[string][]*db_models.Report)
	var categories []string
	for i := range ownReports {
		report := &ownReports[i]
		category := n.features.ExtractCategory(report)
		if category == "" {
			continue
		}
		if _, ok := byCategory[category]; !ok {
			categories = append(categories, category)
		}
		byCategory[category] = append(byCategory[category], report)
	}

	var hits []matchHit
	seen := make(map[uuid.UUID]struct{})
	for _, category := range categories {
		for _, own := range byCategory[category] {
			matches, err := n.matching.FindMatches(ctx, own)
			if err != nil {
				log.Printf("Error finding matches for report %s: %v", own.ID, err)
				continue
			}
			for _, match := range matches {
				if n.features.ExtractCategory(match.Report) != category {
					continue
				}
				if _, ok := seen[match.Report.ID]; ok {
					continue
				}
				seen[match.Report.ID] = struct{}{}
				hits = append(hits, matchHit{own: own, candidate: match})
			}
		}
	}

	return hits, nil
}

// NotificationCount counts distinct unseen candidates; IDs present in the
// caller-supplied viewed set are excluded.
func (n *NotificationService) NotificationCount(ctx context.Context, userID uuid.UUID, viewed map[string]struct{}) (int, error) {
	hits, err := n.collect(ctx, userID)
	if err != nil {
		return 0, err
	}

	count := 0
	for _, hit := range hits {
		if _, ok := viewed[hit.candidate.Report.ID.String()]; ok {
			continue
		}
		count++
	}
	return count, nil
}

func (n *NotificationService) Notifications(ctx context.Context, userID uuid.UUID, limit int) ([]response_models.Notification, error) {
	hits, err := n.collect(ctx, userID)
	if err != nil {
		return nil, err
	}

	items := make([]response_models.Notification, 0, len(hits))
	for _, hit := range hits {
		candidate := hit.candidate.Report
		items = append(items, response_models.Notification{
			Title:      notificationTitle(hit.own, candidate),
			Message:    fmt.Sprintf("%s (Benzerlik: %.0f%%)", candidate.Title, hit.candidate.Similarity*100),
			Similarity: hit.candidate.Similarity,
			CreatedAt:  candidate.CreatedAt,
			ReportID:   candidate.ID.String(),
		})
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Similarity > items[j].Similarity
	})

	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

func notificationTitle(own, candidate *db_models.Report) string {
	if own.IsMissingChild || candidate.IsMissingChild {
		switch candidate.Kind {
		case db_models.ReportKindFound:
			return "Bulunan çocuk ilanı eşleşmesi"
		case db_models.ReportKindLost:
			return "Kayıp çocuk ilanı eşleşmesi"
		default:
			return "Çocuk ilanı eşleşmesi"
		}
	}

	switch candidate.Kind {
	case db_models.ReportKindFound:
		return "Benzer bulunan ilan bulundu"
	case db_models.ReportKindLost:
		return "Benzer kayıp ilan bulundu"
	default:
		return "Benzer ilan bulundu"
	}
}
