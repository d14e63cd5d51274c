package techsupport

// The troubleshooting catalog is static and read-only after init; matching
// is keyword based and anything smarter is delegated to the reasoning
// engine via the optional rephrase step.

type script struct {
	Category string
	Keywords []string
	Steps    []string
}

var catalog = []script{
	{
		Category: "wireless headphones",
		Keywords: []string{"headphone", "earbud", "pair", "bluetooth audio"},
		Steps: []string{
			"If they won't pair: reset by holding the power button for 10 seconds, then re-pair.",
			"If there's no sound: check the volume on both the device and the headphones, and make sure nothing is muted.",
			"If sound quality is poor: move closer to the device, remove obstacles, and check for interference.",
		},
	},
	{
		Category: "laptop stand",
		Keywords: []string{"laptop stand", "stand wobbly", "stand adjust"},
		Steps: []string{
			"If it's wobbly: tighten all screws and make sure it sits on a flat surface.",
			"If it won't adjust: check for debris in the adjustment mechanism and apply a light lubricant.",
			"If the laptop slides: clean the rubber pads and check they are intact.",
		},
	},
	{
		Category: "mechanical keyboard",
		Keywords: []string{"keyboard", "keys", "keycap"},
		Steps: []string{
			"If keys aren't working: try a different USB port and check for driver updates.",
			"If keys are sticking: remove the keycaps and clean with compressed air.",
			"If the backlight is off: check brightness settings and try Fn + the brightness key.",
		},
	},
	{
		Category: "smartwatch",
		Keywords: []string{"watch", "smartwatch"},
		Steps: []string{
			"If it won't charge: clean the charging contacts and try a different cable or adapter.",
			"If it's not syncing: restart both the watch and your phone, then check the Bluetooth connection.",
			"If the battery drains fast: reduce screen brightness and disable the always-on display.",
		},
	},
	{
		Category: "phone case",
		Keywords: []string{"phone case", "case"},
		Steps: []string{
			"If it doesn't fit: verify model compatibility and check for protective film left on the phone.",
			"If buttons are hard to press: remove the case and reinstall it, making sure it's aligned.",
		},
	},
	{
		Category: "usb-c cable",
		Keywords: []string{"cable", "usb", "charging", "charge"},
		Steps: []string{
			"If it's not charging: try a different port or adapter and check for debris in the port.",
			"If charging is slow: make sure you're using a power adapter with enough wattage.",
			"If data transfer fails: verify the cable supports data; some are charge-only.",
		},
	},
	{
		Category: "mouse pad",
		Keywords: []string{"mouse pad", "mousepad", "cursor"},
		Steps: []string{
			"If the cursor is jumpy: clean the mouse sensor and make sure the pad is flat and clean.",
			"If the edges curl: place heavy books on the corners overnight.",
		},
	},
}

const triageQuestion = "I'd be happy to help troubleshoot! Could you tell me which product you're having trouble with and what exactly it's doing?"

const escalationNote = "If that doesn't resolve it, please contact the manufacturer's support with your warranty information."
