package service

import "github.com/saadjs/serenitree-cli/internal/model"

var CrisisResources = []model.CrisisResource{
	{
		ID:           "988",
		Name:         "988 Suicide & Crisis Lifeline",
		Contact:      "988",
		Description:  "Free, confidential support for people in distress",
		Availability: "24/7",
		Kind:         "call",
		Urgent:       true,
	},
	{
		ID:           "crisis-text",
		Name:         "Crisis Text Line",
		Contact:      "Text HOME to 741741",
		Description:  "Connect with a trained crisis counselor by text",
		Availability: "24/7",
		Kind:         "text",
		Urgent:       true,
	},
	{
		ID:           "samhsa",
		Name:         "SAMHSA National Helpline",
		Contact:      "1-800-662-4357",
		Description:  "Treatment referral and information service",
		Availability: "24/7",
		Kind:         "call",
	},
	{
		ID:           "nami",
		Name:         "NAMI HelpLine",
		Contact:      "1-800-950-6264",
		Description:  "Information, referrals and support for mental health",
		Availability: "Mon-Fri, 10am-10pm ET",
		Kind:         "call",
	},
	{
		ID:           "trevor",
		Name:         "The Trevor Project",
		Contact:      "1-866-488-7386",
		Description:  "Crisis support for LGBTQ young people",
		Availability: "24/7",
		Kind:         "call",
	},
}

var CopingStrategies = []model.CopingStrategy{
	{Title: "Grounding 5-4-3-2-1", Description: "Name 5 things you see, 4 you can touch, 3 you hear, 2 you smell and 1 you taste."},
	{Title: "Box Breathing", Description: "Breathe in for 4, hold for 4, out for 4, hold for 4. Repeat a few times."},
	{Title: "Call Someone", Description: "Reach out to a friend, family member or someone you trust."},
	{Title: "Change Your Environment", Description: "Step outside, move to another room or take a short walk."},
}

// UrgentResources returns the resources to surface next to a crisis flag.
func UrgentResources() []model.CrisisResource {
	out := make([]model.CrisisResource, 0, 2)
	for _, r := range CrisisResources {
		if r.Urgent {
			out = append(out, r)
		}
	}
	return out
}
