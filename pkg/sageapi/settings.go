package sageapi

import (
	"sort"
	"strconv"
	"strings"
)

// Settings mirrors /api/user/settings.
type Settings struct {
	Notifications NotificationSettings `json:"notifications"`
	Preferences   PreferenceSettings   `json:"preferences"`
	Privacy       PrivacySettings      `json:"privacy"`
}

// NotificationSettings toggles the alert channels.
type NotificationSettings struct {
	Email             bool `json:"email"`
	Push              bool `json:"push"`
	PriceAlerts       bool `json:"priceAlerts"`
	NewsAlerts        bool `json:"newsAlerts"`
	PredictionsAlerts bool `json:"predictionsAlerts"`
}

// PreferenceSettings holds display preferences.
type PreferenceSettings struct {
	Language string `json:"language"`
	Currency string `json:"currency"`
	Theme    string `json:"theme"`
	Timezone string `json:"timezone"`
}

// PrivacySettings holds data sharing choices.
type PrivacySettings struct {
	ShareData        bool `json:"shareData"`
	PublicProfile    bool `json:"publicProfile"`
	ActivityTracking bool `json:"activityTracking"`
}

// DefaultSettings returns the settings a fresh account starts with.
func DefaultSettings() Settings {
	return Settings{
		Notifications: NotificationSettings{
			Email:             true,
			Push:              true,
			PriceAlerts:       true,
			PredictionsAlerts: true,
		},
		Preferences: PreferenceSettings{
			Language: "en",
			Currency: "USD",
			Theme:    "light",
			Timezone: "UTC",
		},
		Privacy: PrivacySettings{
			ActivityTracking: true,
		},
	}
}

type settingField struct {
	boolPtr   *bool
	stringPtr *string
	allowed   []string
}

// fields maps dotted keys onto the fields of s.
func (s *Settings) fields() map[string]settingField {
	return map[string]settingField{
		"notifications.email":             {boolPtr: &s.Notifications.Email},
		"notifications.push":              {boolPtr: &s.Notifications.Push},
		"notifications.priceAlerts":       {boolPtr: &s.Notifications.PriceAlerts},
		"notifications.newsAlerts":        {boolPtr: &s.Notifications.NewsAlerts},
		"notifications.predictionsAlerts": {boolPtr: &s.Notifications.PredictionsAlerts},
		"preferences.language":            {stringPtr: &s.Preferences.Language},
		"preferences.currency":            {stringPtr: &s.Preferences.Currency},
		"preferences.theme":               {stringPtr: &s.Preferences.Theme, allowed: []string{"light", "dark"}},
		"preferences.timezone":            {stringPtr: &s.Preferences.Timezone},
		"privacy.shareData":               {boolPtr: &s.Privacy.ShareData},
		"privacy.publicProfile":           {boolPtr: &s.Privacy.PublicProfile},
		"privacy.activityTracking":        {boolPtr: &s.Privacy.ActivityTracking},
	}
}

// Keys returns every settable dotted key, sorted.
func (s *Settings) Keys() []string {
	fields := s.fields()
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Get returns the string form of the value at key.
func (s *Settings) Get(key string) (string, bool) {
	_, field, ok := s.lookup(key)
	if !ok {
		return "", false
	}
	if field.boolPtr != nil {
		return strconv.FormatBool(*field.boolPtr), true
	}
	return *field.stringPtr, true
}

// Set assigns value to the dotted key (e.g. "notifications.email").
// Keys match case-insensitively.
func (s *Settings) Set(key, value string) error {
	name, field, ok := s.lookup(key)
	if !ok {
		return &ValidationError{Field: key, Reason: "unknown setting"}
	}

	value = strings.TrimSpace(value)
	if field.boolPtr != nil {
		b, err := strconv.ParseBool(value)
		if err != nil {
			return &ValidationError{Field: name, Reason: "must be true or false"}
		}
		*field.boolPtr = b
		return nil
	}

	if value == "" {
		return &ValidationError{Field: name, Reason: "must not be empty"}
	}
	if len(field.allowed) > 0 {
		match := false
		for _, a := range field.allowed {
			if strings.EqualFold(a, value) {
				value = a
				match = true
				break
			}
		}
		if !match {
			return &ValidationError{Field: name, Reason: "must be one of " + strings.Join(field.allowed, ", ")}
		}
	}
	*field.stringPtr = value
	return nil
}

func (s *Settings) lookup(key string) (string, settingField, bool) {
	key = strings.TrimSpace(key)
	for name, field := range s.fields() {
		if strings.EqualFold(name, key) {
			return name, field, true
		}
	}
	return "", settingField{}, false
}
