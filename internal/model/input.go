package model

import "strings"

// Input is a create/update payload: a BaseEvent without its id. Ids are
// assigned by the store when the event is created.
type Input struct {
	Title       string            `json:"title"`
	Date        string            `json:"date"`
	Time        string            `json:"time"`
	Description string            `json:"description"`
	Recurrence  Recurrence        `json:"recurrence"`
	Custom      *CustomRecurrence `json:"customRecurrence,omitempty"`
	EndDate     string            `json:"endDate,omitempty"`
	Color       string            `json:"color"`
	Category    string            `json:"category,omitempty"`
}

// ValidationError reports every field problem found in one payload, so
// a caller can surface all of them at once instead of fixing one field
// per attempt.
type ValidationError struct {
	Issues []string
}

func (e *ValidationError) Error() string {
	return "invalid event: " + strings.Join(e.Issues, "; ")
}

// Validate checks an Input against the event schema. It returns a
// *ValidationError listing every violation, or nil when the payload is
// acceptable. Validation never mutates state; the store only applies
// payloads that pass.
func (in Input) Validate() error {
	var issues []string

	if strings.TrimSpace(in.Title) == "" {
		issues = append(issues, "title is required")
	}
	if in.Date == "" {
		issues = append(issues, "date is required")
	} else if _, err := ParseDate(in.Date); err != nil {
		issues = append(issues, "date must be yyyy-MM-dd")
	}
	if in.Time == "" {
		issues = append(issues, "time is required")
	} else if _, err := ParseTime(in.Time); err != nil {
		issues = append(issues, "time must be HH:mm")
	}
	if !in.Recurrence.Valid() {
		issues = append(issues, "recurrence must be one of none, daily, weekly, monthly, custom")
	}
	if in.Recurrence == RecurrenceCustom {
		switch {
		case in.Custom == nil:
			issues = append(issues, "customRecurrence is required for custom recurrence")
		case in.Custom.Interval < 1:
			issues = append(issues, "customRecurrence interval must be a positive integer")
		case !in.Custom.Unit.Valid():
			issues = append(issues, "customRecurrence unit must be one of days, weeks, months")
		}
	}
	if in.EndDate != "" {
		end, err := ParseDate(in.EndDate)
		if err != nil {
			issues = append(issues, "endDate must be yyyy-MM-dd")
		} else if start, serr := ParseDate(in.Date); serr == nil && end.Before(start) {
			issues = append(issues, "endDate must not be before date")
		}
	}
	if in.Color == "" {
		issues = append(issues, "color is required")
	}
	if in.Category == "" {
		issues = append(issues, "category is required")
	}

	if len(issues) > 0 {
		return &ValidationError{Issues: issues}
	}
	return nil
}

// Normalize drops fields that do not apply to the chosen recurrence:
// a non-recurring event keeps no end date and only custom recurrence
// carries an interval rule.
func (in Input) Normalize() Input {
	if in.Recurrence != RecurrenceCustom {
		in.Custom = nil
	}
	if in.Recurrence == RecurrenceNone {
		in.EndDate = ""
	}
	return in
}

// Event materializes the input as a BaseEvent with the given id.
func (in Input) Event(id string) BaseEvent {
	return BaseEvent{
		ID:          id,
		Title:       in.Title,
		Date:        in.Date,
		Time:        in.Time,
		Description: in.Description,
		Recurrence:  in.Recurrence,
		Custom:      in.Custom,
		EndDate:     in.EndDate,
		Color:       in.Color,
		Category:    in.Category,
	}
}

// InputOf converts a stored event back into an Input, used when a patch
// must be validated against the merged result before it is applied.
func InputOf(b BaseEvent) Input {
	return Input{
		Title:       b.Title,
		Date:        b.Date,
		Time:        b.Time,
		Description: b.Description,
		Recurrence:  b.Recurrence,
		Custom:      b.Custom,
		EndDate:     b.EndDate,
		Color:       b.Color,
		Category:    b.Category,
	}
}

// Patch is a partial update of a BaseEvent. Nil fields are left alone.
type Patch struct {
	Title       *string           `json:"title,omitempty"`
	Date        *string           `json:"date,omitempty"`
	Time        *string           `json:"time,omitempty"`
	Description *string           `json:"description,omitempty"`
	Recurrence  *Recurrence       `json:"recurrence,omitempty"`
	Custom      *CustomRecurrence `json:"customRecurrence,omitempty"`
	EndDate     *string           `json:"endDate,omitempty"`
	Color       *string           `json:"color,omitempty"`
	Category    *string           `json:"category,omitempty"`
}

// Apply merges the patch into a copy of b and returns it.
func (p Patch) Apply(b BaseEvent) BaseEvent {
	if p.Title != nil {
		b.Title = *p.Title
	}
	if p.Date != nil {
		b.Date = *p.Date
	}
	if p.Time != nil {
		b.Time = *p.Time
	}
	if p.Description != nil {
		b.Description = *p.Description
	}
	if p.Recurrence != nil {
		b.Recurrence = *p.Recurrence
	}
	if p.Custom != nil {
		b.Custom = p.Custom
	}
	if p.EndDate != nil {
		b.EndDate = *p.EndDate
	}
	if p.Color != nil {
		b.Color = *p.Color
	}
	if p.Category != nil {
		b.Category = *p.Category
	}
	return b
}
