package card

import (
	"fmt"
	"strings"
)

// Card 牌枚举
//
// 编码规则:
// - 高4位: 花色 (0:Spade, 1:Heart, 2:Club, 3:Diamond)
// - 低4位: 点数 (1:A, 2..7, 11:J, 12:Q, 13:K); 8, 9 and 10 are not part of the truco deck.
type Card byte

func (c Card) String() string {
	switch c {
	case CardEmpty:
		return "Empty"
	case CardRear:
		return "Rear"
	}
	return fmt.Sprintf("%s%s", rankString(c.Rank()), c.Suit())
}

// Rank returns the face value 1-13 (A=1, K=13).
func (c Card) Rank() byte {
	if c == CardEmpty || c == CardRear {
		return 0
	}
	return byte(c & 0x0F)
}

// Suit 花色 (0:Spades, 1:Hearts, 2:Clubs, 3:Diamonds)
func (c Card) Suit() Suit {
	return Suit(c >> 4)
}

// IsPlayable reports whether c is a real face-up card rather than a slot sentinel.
func (c Card) IsPlayable() bool {
	return c != CardEmpty && c != CardRear && c.Rank() != 0
}

// Valid reports whether c belongs to the 40-card truco deck.
func (c Card) Valid() bool {
	if c == CardEmpty || c == CardRear || c.Suit() > Diamond {
		return false
	}
	_, ok := rankStrength[c.Rank()]
	return ok
}

func rankString(rank byte) string {
	switch rank {
	case 1:
		return "A"
	case 11:
		return "J"
	case 12:
		return "Q"
	case 13:
		return "K"
	default:
		return fmt.Sprintf("%d", rank)
	}
}

// Parse converts strings such as "4c", "7h", "As", "Qd" into a Card.
func Parse(cardStr string) (Card, error) {
	cardStr = strings.TrimSpace(cardStr)
	if len(cardStr) < 2 {
		return CardEmpty, fmt.Errorf("invalid card string: %q", cardStr)
	}

	var suitBase Card
	switch cardStr[len(cardStr)-1] {
	case 's', 'S':
		suitBase = 0x00
	case 'h', 'H':
		suitBase = 0x10
	case 'c', 'C':
		suitBase = 0x20
	case 'd', 'D':
		suitBase = 0x30
	default:
		return CardEmpty, fmt.Errorf("invalid suit: %c", cardStr[len(cardStr)-1])
	}

	var rankVal Card
	switch strings.ToUpper(cardStr[:len(cardStr)-1]) {
	case "A":
		rankVal = 0x01
	case "2":
		rankVal = 0x02
	case "3":
		rankVal = 0x03
	case "4":
		rankVal = 0x04
	case "5":
		rankVal = 0x05
	case "6":
		rankVal = 0x06
	case "7":
		rankVal = 0x07
	case "J":
		rankVal = 0x0B
	case "Q":
		rankVal = 0x0C
	case "K":
		rankVal = 0x0D
	default:
		return CardEmpty, fmt.Errorf("invalid rank: %s", cardStr[:len(cardStr)-1])
	}
	return suitBase + rankVal, nil
}

// MustParse is Parse for fixtures; it panics on malformed input.
func MustParse(cardStr string) Card {
	c, err := Parse(cardStr)
	if err != nil {
		panic(err)
	}
	return c
}

// Code returns the short notation accepted by Parse.
func (c Card) Code() string {
	if !c.IsPlayable() {
		return ""
	}
	return rankString(c.Rank()) + c.Suit().Letter()
}
