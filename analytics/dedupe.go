/*
dedupe.go - Advisory duplicate detection

PURPOSE:
  Upstream sync occasionally imports the same contract twice. Two policies
  sharing (policy number, company, start date) are almost certainly the same
  contract. Detection is ADVISORY ONLY: findings are logged for operator
  review and exposed over the API, but the engine never auto-merges or
  excludes records. Deduplicated input is not a guarantee of this core.
*/
package analytics

import (
	"log"

	"github.com/google/uuid"
)

// DuplicateKey identifies a probable-duplicate cluster.
type DuplicateKey struct {
	Number    string
	Company   string
	StartDate Date
}

// DuplicateGroup is a set of policies sharing one duplicate key.
type DuplicateGroup struct {
	ID        string
	Key       DuplicateKey
	PolicyIDs []string
}

// DetectDuplicates scans the snapshot for policies sharing (policy number,
// company, start date). Policies without a number are skipped: a blank
// number matches everything and means nothing.
func DetectDuplicates(policies []*Policy) []DuplicateGroup {
	byKey := map[DuplicateKey][]string{}
	var order []DuplicateKey
	for _, p := range policies {
		if p.Number == "" {
			continue
		}
		k := DuplicateKey{Number: p.Number, Company: p.Company, StartDate: p.StartDate}
		if _, seen := byKey[k]; !seen {
			order = append(order, k)
		}
		byKey[k] = append(byKey[k], p.ID)
	}

	var groups []DuplicateGroup
	for _, k := range order {
		ids := byKey[k]
		if len(ids) < 2 {
			continue
		}
		groups = append(groups, DuplicateGroup{
			ID:        uuid.NewString(),
			Key:       k,
			PolicyIDs: ids,
		})
	}
	return groups
}

// LogDuplicates writes advisory findings for operator review.
func LogDuplicates(groups []DuplicateGroup) {
	for _, g := range groups {
		log.Printf("[Dedupe] probable duplicate: number=%q company=%q start=%s policies=%v (finding %s)",
			g.Key.Number, g.Key.Company, g.Key.StartDate, g.PolicyIDs, g.ID)
	}
}
