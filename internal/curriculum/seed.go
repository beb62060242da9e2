package curriculum

// Recognized theory titles per phase. Phase-3 "Collision Avoidance" is
// recognized by the classifier but is not a template slot.
var (
	phase1Theory = []string{"The Vehicle", "The Driver", "The Environment", "At-Risk Behaviours", "Evaluation"}
	phase2Theory = []string{"Accompanied Driving", "OEA Strategy"}
	phase3Theory = []string{"Speed", "Sharing the Road", "Alcohol and Drugs", "Collision Avoidance"}
	phase4Theory = []string{"Fatigue and Distractions", "Eco-Driving"}
)

func seedSessions() []Session {
	return []Session{
		{Ordinal: 1, Phase: Phase1, Name: "The Vehicle", Kind: KindTheory},
		{Ordinal: 2, Phase: Phase1, Name: "The Driver", Kind: KindTheory},
		{Ordinal: 3, Phase: Phase1, Name: "The Environment", Kind: KindTheory},
		{Ordinal: 4, Phase: Phase1, Name: "At-Risk Behaviours", Kind: KindTheory},
		{Ordinal: 5, Phase: Phase1, Name: "Evaluation", Kind: KindTheory},

		{Ordinal: 6, Phase: Phase2, Name: "Accompanied Driving", Kind: KindTheory},
		{Ordinal: 7, Phase: Phase2, Name: "In-Car Session 1", Kind: KindPractical},
		{Ordinal: 8, Phase: Phase2, Name: "In-Car Session 2", Kind: KindPractical},
		{Ordinal: 9, Phase: Phase2, Name: "OEA Strategy", Kind: KindTheory},
		{Ordinal: 10, Phase: Phase2, Name: "In-Car Session 3", Kind: KindPractical},
		{Ordinal: 11, Phase: Phase2, Name: "In-Car Session 4", Kind: KindPractical},

		{Ordinal: 12, Phase: Phase3, Name: "Speed", Kind: KindTheory},
		{Ordinal: 13, Phase: Phase3, Name: "In-Car Session 5", Kind: KindPractical},
		{Ordinal: 14, Phase: Phase3, Name: "In-Car Session 6", Kind: KindPractical},
		{Ordinal: 15, Phase: Phase3, Name: "Sharing the Road", Kind: KindTheory},
		{Ordinal: 16, Phase: Phase3, Name: "In-Car Session 7", Kind: KindPractical},
		{Ordinal: 17, Phase: Phase3, Name: "In-Car Session 8", Kind: KindPractical},
		{Ordinal: 18, Phase: Phase3, Name: "Alcohol and Drugs", Kind: KindTheory},
		{Ordinal: 19, Phase: Phase3, Name: "In-Car Session 9", Kind: KindPractical},
		{Ordinal: 20, Phase: Phase3, Name: "In-Car Session 10", Kind: KindPractical},

		{Ordinal: 21, Phase: Phase4, Name: "Fatigue and Distractions", Kind: KindTheory},
		{Ordinal: 22, Phase: Phase4, Name: "In-Car Session 11", Kind: KindPractical},
		{Ordinal: 23, Phase: Phase4, Name: "In-Car Session 12", Kind: KindPractical},
		{Ordinal: 24, Phase: Phase4, Name: "In-Car Session 13", Kind: KindPractical},
		{Ordinal: 25, Phase: Phase4, Name: "Eco-Driving", Kind: KindTheory},
		{Ordinal: 26, Phase: Phase4, Name: "In-Car Session 14", Kind: KindPractical},
		{Ordinal: 27, Phase: Phase4, Name: "In-Car Session 15", Kind: KindPractical},
	}
}

func init() {
	sessions := seedSessions()
	if err := validateSessions(sessions); err != nil {
		panic(err)
	}
	t = buildTemplate(sessions)
}
