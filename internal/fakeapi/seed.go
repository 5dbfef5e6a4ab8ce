package fakeapi

import (
	"fmt"
	"strings"
)

var seedTopics = []string{
	"Writing small tools",
	"Notes on pagination",
	"Terminal interfaces",
	"Reading code out loud",
	"On naming things",
	"Testing the boring parts",
}

func seedTitle(i int) string {
	return fmt.Sprintf("%s #%d", seedTopics[i%len(seedTopics)], i)
}

func seedBody(i int) string {
	paragraph := "This is a sample post used to try the client against a local API. " +
		"It has enough words to produce a reading time estimate and to wrap across lines."
	return strings.Repeat(paragraph+"\n\n", 1+i%4)
}
