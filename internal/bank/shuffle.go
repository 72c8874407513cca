package bank

import "math/rand/v2"

// ShuffleQuestions returns a uniformly random permutation of questions.
// The input is not modified.
func ShuffleQuestions(questions []*Question) []*Question {
	return shuffle(questions, rand.IntN)
}

// ShuffleWith is ShuffleQuestions with an explicit random source.
func ShuffleWith(questions []*Question, r *rand.Rand) []*Question {
	return shuffle(questions, r.IntN)
}

// shuffle is a Fisher-Yates shuffle on a copy.
func shuffle(questions []*Question, intN func(int) int) []*Question {
	out := make([]*Question, len(questions))
	copy(out, questions)
	for i := len(out) - 1; i > 0; i-- {
		j := intN(i + 1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}
