package normalize

import (
	"github.com/ShravyaChalla/fetch-rewards-assessment/internal/entity"
	"github.com/ShravyaChalla/fetch-rewards-assessment/internal/flatten"
)

// DecodeUsers builds one User per account record, de-duplicated on full row identity.
func DecodeUsers(rows []flatten.Row) []entity.User {
	users := make([]entity.User, 0, len(rows))
	for _, r := range rows {
		users = append(users, entity.User{
			UserID:       r.ObjectID("_id"),
			Active:       r.Bool("active"),
			Role:         r.String("role"),
			SignUpSource: r.String("signUpSource"),
			CreatedDate:  r.Time("createdDate"),
			LastLogin:    r.Time("lastLogin"),
		})
	}
	return dedupe(users)
}
