// Package authorization is the single place that decides whether a principal
// may use a feature.
package authorization

import (
	"slices"

	"user-session-api/internal/apperror"
	"user-session-api/internal/models"
)

const (
	FeatureReadSession   = "read:session"
	FeatureCreateSession = "create:session"
	FeatureCreateUser    = "create:user"
)

// AnonymousFeatures are granted to requests without a resolved user.
var AnonymousFeatures = []string{
	"read:activation_token",
	FeatureCreateSession,
	FeatureCreateUser,
}

// ActivatedUserFeatures are granted when an account is activated.
var ActivatedUserFeatures = []string{
	FeatureCreateSession,
	FeatureReadSession,
	"create:content",
	"create:content:text_root",
	"create:content:text_child",
	"update:content",
	"update:user",
}

// Principal is whoever issued the request. A nil User means anonymous.
type Principal struct {
	User *models.User
}

func Anonymous() Principal {
	return Principal{}
}

func ForUser(user *models.User) Principal {
	return Principal{User: user}
}

func (p Principal) IsAnonymous() bool {
	return p.User == nil
}

// Authorize fails with a ForbiddenError whose cause tells an anonymous
// principal apart from a known user that lacks the feature. User features are
// whatever the record holds right now.
func Authorize(p Principal, feature string) error {
	if p.IsAnonymous() {
		if slices.Contains(AnonymousFeatures, feature) {
			return nil
		}
		return apperror.NewForbiddenError(apperror.CauseAnonymous, feature)
	}
	if p.User.HasFeature(feature) {
		return nil
	}
	return apperror.NewForbiddenError(apperror.CauseFeatureMissing, feature)
}
