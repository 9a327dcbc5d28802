package http

import (
	"slices"

	"github.com/aussiebroadwan/surplus360/internal/surplus/domain"
	"github.com/aussiebroadwan/surplus360/pkg/authsdk"
)

func toAccountResponse(u domain.User, p *domain.Profile) authsdk.AccountResponse {
	out := authsdk.AccountResponse{
		ID:          u.ID,
		Login:       u.Login,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		Email:       u.Email,
		Activated:   u.Activated,
		LangKey:     u.LangKey,
		Authorities: slices.Clone(u.Authorities),
	}
	if out.Authorities == nil {
		out.Authorities = []string{}
	}
	if p != nil {
		out.Profile = &authsdk.ProfileResponse{
			Phone:       p.Phone,
			Location:    p.Location,
			CompanyName: p.CompanyName,
		}
	}
	return out
}

func toNotificationResponse(n domain.Notification) authsdk.NotificationResponse {
	return authsdk.NotificationResponse{
		ID:        n.ID.String(),
		Type:      string(n.Type),
		Title:     n.Title,
		Message:   n.Message,
		Data:      n.Data,
		Priority:  string(n.Priority),
		Read:      n.Read,
		CreatedAt: n.CreatedAt,
	}
}

func toNotificationResponses(ns []domain.Notification) []authsdk.NotificationResponse {
	out := make([]authsdk.NotificationResponse, 0, len(ns))
	for _, n := range ns {
		out = append(out, toNotificationResponse(n))
	}
	return out
}

// toListingResponse embeds only the seller's id and login.
func toListingResponse(l domain.Listing) authsdk.ListingResponse {
	tags := slices.Clone(l.Tags)
	if tags == nil {
		tags = []string{}
	}
	return authsdk.ListingResponse{
		ID:          l.ID.String(),
		Seller:      authsdk.SellerRef{ID: l.Seller.ID, Login: l.Seller.Login},
		Title:       l.Title,
		Description: l.Description,
		Tags:        tags,
		PriceCents:  l.PriceCents,
		Currency:    l.Currency,
		Quantity:    l.Quantity,
		Location:    l.Location,
		Status:      string(l.Status),
		ExpiresAt:   l.ExpiresAt,
		CreatedAt:   l.CreatedAt,
	}
}

func toListingResponses(ls []domain.Listing) []authsdk.ListingResponse {
	out := make([]authsdk.ListingResponse, 0, len(ls))
	for _, l := range ls {
		out = append(out, toListingResponse(l))
	}
	return out
}

func toTokenResponse(p domain.TokenPair) authsdk.TokenResponse {
	return authsdk.TokenResponse{
		AccessToken:  p.AccessToken,
		RefreshToken: p.RefreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    int(p.ExpiresIn.Seconds()),
	}
}
