package content

import "time"

// MessageInterval is how long each translation stays up.
const MessageInterval = 4 * time.Second

// Message is one translation of the home-page verse.
type Message struct {
	Text string
	Lang string
}

// Messages are the translations of Fussilat 41:53, in display order.
var Messages = []Message{
	{"Nous leur montrerons Nos signes dans l’univers et en eux-mêmes.", "Français"},
	{"سَنُرِيهِمْ آيَاتِنَا فِي الْآفَاقِ وَفِي أَنفُسِهِمْ", "العربية"},
	{"We will show them Our signs in the universe and within themselves", "English"},
	{"Dina nu leen wan sunuy màndarga ci àdduna bi ak ci seen biir.", "Wolof"},
	{"Les mostraremos Nuestros signos en el universo y en ellos mismos", "Español"},
	{"Wir werden ihnen Unsere Zeichen im Universum und in sich selbst zeigen", "Deutsch"},
	{"われは宇宙と彼ら自身の中に、われの印を示すであろう。", "日本語"},
	{"Tokolakisa bango bilembo na biso na molɔ́ngɔ́ mpe na kati na bango moko.", "Lingala"},
	{"Mostreremo loro i Nostri segni nell'universo e dentro di loro.", "Italiano"},
	{"우리는 그들에게 우주와 그들 자신 안에서 우리의 징표를 보여줄 것이다.", "한국어"},
}

// Carousel cycles through Messages.
type Carousel struct {
	index int
}

// Current returns the message on display.
func (c *Carousel) Current() Message {
	return Messages[c.index]
}

// Index returns the position of the current message.
func (c *Carousel) Index() int {
	return c.index
}

// Advance moves to the next message, wrapping around.
func (c *Carousel) Advance() Message {
	c.index = (c.index + 1) % len(Messages)
	return c.Current()
}

// MessageAt returns the message shown at elapsed time since start.
func MessageAt(elapsed time.Duration) Message {
	if elapsed < 0 {
		elapsed = 0
	}
	return Messages[int(elapsed/MessageInterval)%len(Messages)]
}
