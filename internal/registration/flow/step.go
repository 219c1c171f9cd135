package flow

// Step is one position in the registration conversation. The set is closed:
// the only valid values are the constants below.
type Step int

const (
	StepNone Step = iota
	StepBirthDate
	StepName
	StepPhone
	StepMilitarySpec
	StepDentalSanation
	StepMedicalCertificates
	StepForeignPassport
	StepActiveContracts
	StepDone
)

// TotalSteps is the number of questions shown in the progress bar.
const TotalSteps = int(StepActiveContracts)

var stepNames = map[Step]string{
	StepNone:                "none",
	StepBirthDate:           "birth_date",
	StepName:                "name",
	StepPhone:               "phone",
	StepMilitarySpec:        "military_spec",
	StepDentalSanation:      "dental_sanation",
	StepMedicalCertificates: "medical_certificates",
	StepForeignPassport:     "foreign_passport",
	StepActiveContracts:     "active_contracts",
	StepDone:                "done",
}

func (s Step) String() string {
	if name, ok := stepNames[s]; ok {
		return name
	}
	return "unknown"
}

// IsValid reports whether s is one of the declared steps.
func (s Step) IsValid() bool {
	return s >= StepNone && s <= StepDone
}

// IsQuestion reports whether s expects an answer from the user.
func (s Step) IsQuestion() bool {
	return s >= StepBirthDate && s <= StepActiveContracts
}

// Terminal reports whether the conversation is finished at s.
func (s Step) Terminal() bool {
	return s == StepDone
}

// Number is the 1-based position of a question step in the progress bar.
func (s Step) Number() int {
	if !s.IsQuestion() {
		return 0
	}
	return int(s)
}

// Next is the transition taken after a valid answer at s. Non-question steps
// have no successor and return themselves.
func Next(s Step) Step {
	if !s.IsQuestion() {
		return s
	}
	return s + 1
}
