package config

// DefaultSheets are the drawers the demo ships with. They mirror the shapes a
// social app needs: compose, comment threads, quick replies and filters.
func DefaultSheets() []Sheet {
    return []Sheet{
        {
            Name:             "create-post",
            Title:            "Create post",
            Description:      "Full composer; pull up to extend over the feed.",
            SupportsExtended: true,
        },
        {
            Name:             "comments",
            Title:            "Comments",
            Description:      "Thread viewer at a fixed 520px height with an extended tier.",
            SupportsExtended: true,
            CollapsedHeight:  520,
            ExtendedFraction: 0.95,
        },
        {
            Name:               "story-reply",
            Title:              "Reply to story",
            Description:        "Short reply box; closes on a small pull.",
            CollapsedFraction:  0.4,
            CloseDragThreshold: 0.15,
        },
        {
            Name:              "study-room",
            Title:             "Study room",
            Description:       "Room details with a roomy extended tier.",
            SupportsExtended:  true,
            CollapsedFraction: 0.6,
        },
        {
            Name:              "event-details",
            Title:             "Event details",
            Description:       "Event card; needs a firm flick to dismiss.",
            CollapsedFraction: 0.7,
            VelocityThreshold: 900,
        },
        {
            Name:              "poll",
            Title:             "Poll",
            Description:       "Compact voting sheet.",
            CollapsedHeight:   320,
        },
        {
            Name:                  "profile-edit",
            Title:                 "Edit profile",
            Description:           "Form sheet; extends easily, collapses reluctantly.",
            SupportsExtended:      true,
            CollapsedFraction:     0.75,
            ExtendDragThreshold:   0.05,
            CollapseDragThreshold: 0.2,
        },
        {
            Name:              "feed-filter",
            Title:             "Feed filters",
            Description:       "Half-height filter picker.",
            CollapsedFraction: 0.5,
        },
    }
}
