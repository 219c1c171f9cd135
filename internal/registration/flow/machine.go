package flow

import (
	"strings"
	"time"

	"recruitbot/internal/registration/models"
	"recruitbot/internal/registration/validate"
)

// Session is the transient progress of one identity through the form.
// It exists only while Step is a question step.
type Session struct {
	UserID    int64
	Step      Step
	Fields    models.Fields
	Attempts  int // completed records at session start
	StartedAt time.Time
}

// NewSession opens a session positioned on the first question.
func NewSession(userID int64, attempts int, now time.Time) Session {
	return Session{
		UserID:    userID,
		Step:      StepBirthDate,
		Fields:    models.Fields{},
		Attempts:  attempts,
		StartedAt: now,
	}
}

// parseFunc turns raw text into fields for one step. A non-empty retry means the
// answer was rejected and must be re-asked with that text.
type parseFunc func(text string, now time.Time) (fields models.Fields, retry string)

type stepDef struct {
	prompt   string
	keyboard Keyboard
	parse    parseFunc
}

// Outcome is the result of feeding one answer to the machine.
type Outcome struct {
	Session  Session
	Reply    Reply
	Accepted bool
	// Done is true once the last question was answered; the caller persists
	// the session and builds the final reply.
	Done bool
}

// Machine holds the step table. It has no mutable state and is safe to share.
type Machine struct {
	steps map[Step]stepDef
}

// New builds the registration step table.
func New() *Machine {
	return &Machine{steps: map[Step]stepDef{
		StepBirthDate:           {prompt: textBirthDatePrompt, parse: parseBirthDate},
		StepName:                {prompt: textNamePrompt, parse: parseFullName},
		StepPhone:               {prompt: textPhonePrompt, parse: parsePhone},
		StepMilitarySpec:        {prompt: textSpecPrompt, parse: parseMilitarySpec},
		StepDentalSanation:      yesNoStep(StepDentalSanation, textDentalPrompt, models.FieldDentalSanation),
		StepMedicalCertificates: yesNoStep(StepMedicalCertificates, textMedicalPrompt, models.FieldMedicalCertificates),
		StepForeignPassport:     yesNoStep(StepForeignPassport, textPassportPrompt, models.FieldForeignPassport),
		StepActiveContracts:     yesNoStep(StepActiveContracts, textContractsPrompt, models.FieldActiveContracts),
	}}
}

// Prompt returns the question shown when entering step.
func (m *Machine) Prompt(step Step) Reply {
	def, ok := m.steps[step]
	if !ok {
		return Reply{}
	}
	return Reply{
		Text:     ProgressBar(step.Number()) + def.prompt,
		Keyboard: def.keyboard,
		HTML:     true,
	}
}

// Apply feeds text to the session's current step. On rejection the returned
// session is the input session unchanged; on acceptance it carries the new
// fields and the next step.
func (m *Machine) Apply(sess Session, text string, now time.Time) Outcome {
	def, ok := m.steps[sess.Step]
	if !ok {
		return Outcome{Session: sess}
	}

	fields, retry := def.parse(text, now)
	if retry != "" {
		return Outcome{
			Session: sess,
			Reply:   Reply{Text: retry, Keyboard: def.keyboard, HTML: true},
		}
	}

	next := sess
	next.Fields = sess.Fields.Clone()
	for k, v := range fields {
		next.Fields[k] = v
	}
	next.Step = Next(sess.Step)

	out := Outcome{Session: next, Accepted: true}
	if next.Step.Terminal() {
		out.Done = true
		return out
	}
	out.Reply = m.Prompt(next.Step)
	return out
}

func parseBirthDate(text string, now time.Time) (models.Fields, string) {
	if !validate.BirthDate(text, now) {
		return nil, textBirthDateRetry
	}
	return models.Fields{models.FieldBirthDate: strings.TrimSpace(text)}, ""
}

func parseFullName(text string, _ time.Time) (models.Fields, string) {
	parts := strings.Fields(text)
	if len(parts) != 3 {
		return nil, textNameCountRetry
	}
	for _, part := range parts {
		if !validate.Name(part) {
			return nil, textNameCharsRetry
		}
	}
	return models.Fields{
		models.FieldLastName:   parts[0],
		models.FieldFirstName:  parts[1],
		models.FieldPatronymic: parts[2],
	}, ""
}

func parsePhone(text string, _ time.Time) (models.Fields, string) {
	ok, phone := validate.Phone(text)
	if !ok {
		return nil, ProgressBar(StepPhone.Number()) + textPhoneRetry
	}
	return models.Fields{models.FieldPhoneNumber: phone}, ""
}

func parseMilitarySpec(text string, _ time.Time) (models.Fields, string) {
	ok, spec := validate.MilitarySpec(text)
	if !ok {
		return nil, ProgressBar(StepMilitarySpec.Number()) + textSpecRetry
	}
	return models.Fields{models.FieldMilitarySpec: spec}, ""
}

// yesNoStep accepts exactly "Да" or "Нет" and stores the answer under field.
func yesNoStep(step Step, prompt string, field models.Field) stepDef {
	return stepDef{
		prompt:   prompt,
		keyboard: KeyboardYesNo,
		parse: func(text string, _ time.Time) (models.Fields, string) {
			switch text {
			case textAnswerYes:
				return models.Fields{field: true}, ""
			case textAnswerNo:
				return models.Fields{field: false}, ""
			}
			return nil, ProgressBar(step.Number()) + textYesNoRetry
		},
	}
}

// YesNoAnswers lists the literal answers accepted by yes/no steps, in keyboard order.
func YesNoAnswers() []string {
	return []string{textAnswerYes, textAnswerNo}
}
