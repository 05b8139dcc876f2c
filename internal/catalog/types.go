package catalog

import (
	"fmt"
	"strings"
)

// Mode is the fulfilment channel an item is sold through.
type Mode int

const (
	DineIn Mode = iota
	Parcel
)

// Modes lists every mode in display order.
var Modes = []Mode{DineIn, Parcel}

func (m Mode) String() string {
	switch m {
	case DineIn:
		return "Dine-in"
	case Parcel:
		return "Parcel"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode accepts the display name in any case.
func ParseMode(s string) (Mode, error) {
	for _, m := range Modes {
		if strings.EqualFold(strings.TrimSpace(s), m.String()) {
			return m, nil
		}
	}
	return 0, fmt.Errorf("unknown mode %q", s)
}

// MenuItem is one priced entry of a mode's menu.
type MenuItem struct {
	Name  string `json:"name"`
	Price int64  `json:"price"`
	Mode  Mode   `json:"-"`
}

// menuFile is the JSON layout accepted by LoadFromFile.
type menuFile struct {
	DineIn []fileItem `json:"dine_in"`
	Parcel []fileItem `json:"parcel"`
}

type fileItem struct {
	Name  string `json:"name"`
	Price int64  `json:"price"`
}

// defaultMenu is the counter's standing price list.
var defaultMenu = menuFile{
	DineIn: []fileItem{
		{"பானி பூரி", 50},
		{"மசால் பூரி", 50},
		{"காளான்", 50},
		{"பேல் பூரி", 50},
		{"சோயா", 40},
		{"எக் நூடுல்ஸ்", 60},
		{"எக் ரைஸ்", 70},
		{"சிக்கன் நூடுல்ஸ்", 80},
		{"சிக்கன் ரைஸ்", 80},
		{"எக் பாஸ்தா", 100},
		{"எக் காளான்", 80},
	},
	Parcel: []fileItem{
		{"பானி பூரி", 60},
		{"மசால் பூரி", 60},
		{"காளான்", 60},
		{"பேல் பூரி", 60},
		{"சோயா", 50},
		{"எக் நூடுல்ஸ்", 70},
		{"எக் ரைஸ்", 80},
		{"சிக்கன் நூடுல்ஸ்", 90},
		{"சிக்கன் ரைஸ்", 90},
		{"எக் பாஸ்தா", 120},
		{"எக் காளான்", 100},
	},
}
