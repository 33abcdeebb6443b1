// Package seed carries the demo roster used to populate an empty database.
package seed

import "gradebook/internal/model"

// DemoRoster returns sample students for local development and demos. Two of
// them already have marks recorded so the dashboard has something to derive.
func DemoRoster() []model.Student {
	return []model.Student{
		{
			Name:  "Aarav Sharma",
			Roll:  "101",
			Grade: "10th",
			Email: "aarav@example.com",
			Scores: model.Scores{
				Math:    model.Float64(92),
				Science: model.Float64(88),
				English: model.Float64(81),
			},
			Remarks: "Consistent performer",
		},
		{
			Name:  "Bianca Rossi",
			Roll:  "102",
			Grade: "10th",
			Scores: model.Scores{
				Math:    model.Float64(74),
				English: model.Float64(79),
			},
		},
		{
			Name:  "Chen Wei",
			Roll:  "103",
			Grade: "9th",
			Email: "chen.wei@example.com",
		},
		{
			Name:  "Divya Nair",
			Roll:  "104",
			Grade: "9th",
		},
	}
}
