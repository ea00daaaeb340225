// Package meditation holds the guided meditations and steps through them.
package meditation

import (
	"context"
	"strings"
	"time"
)

// Step delays.
const (
	PauseDelay = 5 * time.Second
	VerseDelay = 8 * time.Second
)

// Meditation is a guided sequence of verses and pauses.
type Meditation struct {
	ID          int
	Title       string
	Duration    string
	Description string
	Steps       []string
}

// Catalog returns the built-in meditations.
func Catalog() []Meditation {
	return []Meditation{
		{
			ID:          1,
			Title:       "Contemplation des Étoiles",
			Duration:    "5 minutes",
			Description: "Une méditation guidée sur les signes divins dans le ciel étoilé",
			Steps: []string{
				`"En vérité, dans la création des cieux et de la terre, et dans l'alternance de la nuit et du jour, il y a certes des signes pour les doués d'intelligence" (Al-Imran 3:190)`,
				"Pause et silence - 30 secondes",
				`"Qui, debout, assis, couchés sur leurs côtés, invoquent Allah et méditent sur la création des cieux et de la terre (disant): "Notre Seigneur! Tu n'as pas créé cela en vain. Gloire à Toi!" (Al-Imran 3:191)`,
				"Pause et silence - 60 secondes",
				`"C'est Lui qui a fait du soleil une clarté et de la lune une lumière, et Il en a déterminé les phases afin que vous sachiez le nombre des années et le calcul du temps" (Yunus 10:5)`,
				"Pause finale - contemplation libre - 90 secondes",
			},
		},
		{
			ID:          2,
			Title:       "Méditation sur l'Immensité du Cosmos",
			Duration:    "7 minutes",
			Description: "Réflexion sur la grandeur de la création divine à travers l'univers",
			Steps: []string{
				`"Le Créateur des cieux et de la terre. Comment aurait-Il un enfant, quand Il n'a pas de compagne? C'est Lui qui a tout créé, et Il est Omniscient" (Al-An'am 6:101)`,
				"Pause et silence - 40 secondes",
				`"Il a créé les cieux sans piliers que vous puissiez voir; et Il a enfoncé des montagnes fermes dans la terre pour l'empêcher de basculer avec vous; et Il y a propagé des animaux de toute espèce" (Luqman 31:10)`,
				"Pause et silence - 60 secondes",
				`"N'ont-ils pas médité sur le royaume des cieux et de la terre, et toute chose qu'Allah a créée?" (Al-A'raf 7:185)`,
				"Contemplation personnelle - 120 secondes",
			},
		},
		{
			ID:          3,
			Title:       "Gratitude sous les Étoiles",
			Duration:    "6 minutes",
			Description: "Expression de reconnaissance pour les merveilles de la création",
			Steps: []string{
				`"Et si vous comptez les bienfaits d'Allah, vous ne saurez pas les dénombrer. Car Allah est Pardonneur, et Miséricordieux" (An-Nahl 16:18)`,
				"Pause - Énumérez mentalement 5 bienfaits - 60 secondes",
				`"C'est Lui qui vous a assigné la nuit pour que vous vous y reposiez, et le jour pour y voir clair. Voilà bien des signes pour les gens qui entendent" (Yunus 10:67)`,
				"Pause et silence - 45 secondes",
				`"Allah est la Lumière des cieux et de la terre" (An-Nur 24:35)`,
				"Méditation finale en gratitude - 90 secondes",
			},
		},
	}
}

// ByID finds a catalog entry.
func ByID(id int) (Meditation, bool) {
	for _, m := range Catalog() {
		if m.ID == id {
			return m, true
		}
	}
	return Meditation{}, false
}

// DelayFor is how long a step stays on screen before the next one.
func DelayFor(step string) time.Duration {
	if strings.Contains(step, "Pause") {
		return PauseDelay
	}
	return VerseDelay
}

// Sequencer walks one meditation's steps.
type Sequencer struct {
	m        Meditation
	index    int
	playing  bool
	delayFor func(string) time.Duration
}

// NewSequencer starts at the first step, paused.
func NewSequencer(m Meditation) *Sequencer {
	return &Sequencer{m: m, delayFor: DelayFor}
}

// SetDelayFunc replaces DelayFor, e.g. to speed playback up.
func (s *Sequencer) SetDelayFunc(f func(string) time.Duration) {
	if f == nil {
		f = DelayFor
	}
	s.delayFor = f
}

// Meditation returns the meditation being played.
func (s *Sequencer) Meditation() Meditation {
	return s.m
}

// Step returns the current step text.
func (s *Sequencer) Step() string {
	if len(s.m.Steps) == 0 {
		return ""
	}
	return s.m.Steps[s.index]
}

// Index returns the 0-based position.
func (s *Sequencer) Index() int {
	return s.index
}

// Len returns the number of steps.
func (s *Sequencer) Len() int {
	return len(s.m.Steps)
}

// Progress returns the completed fraction, counting the current step.
func (s *Sequencer) Progress() float64 {
	if len(s.m.Steps) == 0 {
		return 0
	}
	return float64(s.index+1) / float64(len(s.m.Steps))
}

// AtEnd reports whether the last step is showing.
func (s *Sequencer) AtEnd() bool {
	return s.index >= len(s.m.Steps)-1
}

// Playing reports whether the sequencer advances on its own.
func (s *Sequencer) Playing() bool {
	return s.playing
}

// Delay is the wait before the current step advances.
func (s *Sequencer) Delay() time.Duration {
	return s.delayFor(s.Step())
}

// Play starts playback. It reports false when already at the last step.
func (s *Sequencer) Play() bool {
	if s.AtEnd() {
		s.playing = false
		return false
	}
	s.playing = true
	return true
}

// Pause stops playback, keeping the position.
func (s *Sequencer) Pause() {
	s.playing = false
}

// Toggle flips between Play and Pause and reports whether it is playing.
func (s *Sequencer) Toggle() bool {
	if s.playing {
		s.Pause()
		return false
	}
	return s.Play()
}

// Reset returns to the first step, paused.
func (s *Sequencer) Reset() {
	s.index = 0
	s.playing = false
}

// Advance moves one step forward. At the last step it stops playback and
// reports false.
func (s *Sequencer) Advance() bool {
	if s.AtEnd() {
		s.playing = false
		return false
	}
	s.index++
	if s.AtEnd() {
		s.playing = false
	}
	return true
}

// Run plays from the current step until the end or ctx is done, calling
// onStep with each step shown.
func (s *Sequencer) Run(ctx context.Context, onStep func(index int, step string)) error {
	if onStep != nil {
		onStep(s.index, s.Step())
	}
	if !s.Play() {
		return nil
	}
	for s.playing {
		timer := time.NewTimer(s.Delay())
		select {
		case <-ctx.Done():
			timer.Stop()
			s.Pause()
			return ctx.Err()
		case <-timer.C:
		}
		if !s.Advance() {
			break
		}
		if onStep != nil {
			onStep(s.index, s.Step())
		}
	}
	return nil
}
