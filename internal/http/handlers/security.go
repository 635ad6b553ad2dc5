package handlers

import (
	"errors"

	"kovil/internal/domain"
)

type recommendations struct {
	Locale string   `json:"locale"`
	Title  string   `json:"title"`
	Points []string `json:"points"`
}

var securityRecommendations = map[string]recommendations{
	"en": {
		Locale: "en",
		Title:  "Security Recommendations",
		Points: []string{
			"Use environment variables to set secure admin credentials",
			"Change default passwords immediately in production",
			"Use strong passwords with mixed case, numbers, and symbols",
			"Enable HTTPS in production environments",
			"Regularly update admin passwords",
			"Monitor admin login activities",
			"Use different credentials for different environments",
		},
	},
	"ta": {
		Locale: "ta",
		Title:  "பாதுகாப்பு பரிந்துரைகள்",
		Points: []string{
			"பாதுகாப்பான நிர்வாக அறிமுக தகவல்களை அமைக்க சூழல் மாறிகளைப் பயன்படுத்தவும்",
			"உற்பத்தியில் இயல்புநிலை கடவுச்சொற்களை உடனே மாற்றவும்",
			"கலப்பு வழக்கு, எண்கள் மற்றும் குறியீடுகளுடன் வலுவான கடவுச்சொற்களைப் பயன்படுத்தவும்",
			"உற்பத்தி சூழல்களில் HTTPS ஐ இயக்கவும்",
			"நிர்வாக கடவுச்சொற்களை தொடர்ந்து புதுப்பிக்கவும்",
			"நிர்வாக உள்நுழைவு செயல்பாடுகளைக் கண்காணிக்கவும்",
			"வெவ்வேறு சூழல்களுக்கு வெவ்வேறு அறிமுக தகவல்களைப் பயன்படுத்தவும்",
		},
	},
}

func recommendationsFor(locale string) recommendations {
	if rec, ok := securityRecommendations[locale]; ok {
		return rec
	}
	return securityRecommendations["en"]
}

func isInvalidCredentials(err error) bool {
	return errors.Is(err, domain.ErrInvalidCredentials)
}
