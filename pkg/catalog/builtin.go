package catalog

// builtinRoles maps project roles to the symbol and value used when a part
// has no LCSC number (or the lookup failed).
var builtinRoles = map[string]Entry{
	"resistor":            {Symbol: "R", Value: "R", FootprintLibrary: "Resistor_SMD", Footprint: "R_0603_1608Metric"},
	"capacitor":           {Symbol: "C", Value: "C", FootprintLibrary: "Capacitor_SMD", Footprint: "C_0603_1608Metric"},
	"capacitor_polarized": {Symbol: "C_Polarized", Value: "C_Polarized"},
	"inductor":            {Symbol: "L", Value: "L"},
	"led":                 {Symbol: "LED", Value: "LED", FootprintLibrary: "LED_SMD", Footprint: "LED_0603_1608Metric"},
	"diode":               {Symbol: "D", Value: "D"},
	"schottky":            {Symbol: "D_Schottky", Value: "D_Schottky"},
	"buck_5v":             {Symbol: "LM2596S-5", Value: "LM2596S-5", FootprintLibrary: "Package_TO_SOT_SMD", Footprint: "TO-263-5_TabPin3"},
	"buck_3v3":            {Symbol: "LM2596S-3.3", Value: "LM2596S-3.3", FootprintLibrary: "Package_TO_SOT_SMD", Footprint: "TO-263-5_TabPin3"},
	"ldo_3v3":             {Symbol: "AMS1117-3.3", Value: "AMS1117-3.3", FootprintLibrary: "Package_TO_SOT_SMD", Footprint: "SOT-223-3_TabPin2"},
	"nmos":                {Symbol: "Q_NMOS_GSD", Value: "Q_NMOS_GSD", FootprintLibrary: "Package_TO_SOT_SMD", Footprint: "SOT-23"},
	"fuse":                {Symbol: "Fuse", Value: "Fuse"},
	"conn_2pin":           {Symbol: "Conn_01x02", Value: "Conn_01x02", FootprintLibrary: "Connector_PinHeader_2.54mm", Footprint: "PinHeader_1x02_P2.54mm_Vertical"},
	"conn_4pin":           {Symbol: "Conn_01x04", Value: "Conn_01x04", FootprintLibrary: "Connector_PinHeader_2.54mm", Footprint: "PinHeader_1x04_P2.54mm_Vertical"},
	"usb_c":               {Symbol: "USB_C_Receptacle_USB2.0", Value: "USB_C"},
}

// builtinSymbols holds the symbol definitions for every builtin role.
var builtinSymbols = []string{
	`(symbol "R" (pin_numbers hide) (pin_names (offset 0)) (in_bom yes) (on_board yes)
  (property "Reference" "R" (at 2.032 0 90))
  (property "Value" "R" (at 0 0 90))
  (symbol "R_0_1" (rectangle (start -1.016 -2.54) (end 1.016 2.54) (stroke (width 0.254) (type default)) (fill (type none))))
  (symbol "R_1_1"
    (pin passive line (at 0 3.81 270) (length 1.27) (name "~") (number "1"))
    (pin passive line (at 0 -3.81 90) (length 1.27) (name "~") (number "2"))))`,

	`(symbol "C" (pin_numbers hide) (pin_names (offset 0.254)) (in_bom yes) (on_board yes)
  (property "Reference" "C" (at 0.635 2.54 0))
  (property "Value" "C" (at 0.635 -2.54 0))
  (symbol "C_1_1"
    (pin passive line (at 0 3.81 270) (length 2.794) (name "~") (number "1"))
    (pin passive line (at 0 -3.81 90) (length 2.794) (name "~") (number "2"))))`,

	`(symbol "C_Polarized" (pin_numbers hide) (pin_names (offset 0.254)) (in_bom yes) (on_board yes)
  (property "Reference" "C" (at 0.635 2.54 0))
  (symbol "C_Polarized_1_1"
    (pin passive line (at 0 3.81 270) (length 2.794) (name "+") (number "1"))
    (pin passive line (at 0 -3.81 90) (length 2.794) (name "-") (number "2"))))`,

	`(symbol "L" (pin_numbers hide) (pin_names (offset 1.016) hide) (in_bom yes) (on_board yes)
  (property "Reference" "L" (at -1.27 0 90))
  (symbol "L_1_1"
    (pin passive line (at 0 3.81 270) (length 1.27) (name "1") (number "1"))
    (pin passive line (at 0 -3.81 90) (length 1.27) (name "2") (number "2"))))`,

	`(symbol "LED" (pin_numbers hide) (pin_names (offset 1.016) hide) (in_bom yes) (on_board yes)
  (property "Reference" "D" (at 0 2.54 0))
  (symbol "LED_1_1"
    (pin passive line (at -3.81 0 0) (length 2.54) (name "K") (number "1"))
    (pin passive line (at 3.81 0 180) (length 2.54) (name "A") (number "2"))))`,

	`(symbol "D" (pin_numbers hide) (pin_names (offset 1.016) hide) (in_bom yes) (on_board yes)
  (property "Reference" "D" (at 0 2.54 0))
  (symbol "D_1_1"
    (pin passive line (at -3.81 0 0) (length 2.54) (name "K") (number "1"))
    (pin passive line (at 3.81 0 180) (length 2.54) (name "A") (number "2"))))`,

	`(symbol "D_Schottky" (pin_numbers hide) (pin_names (offset 1.016) hide) (in_bom yes) (on_board yes)
  (property "Reference" "D" (at 0 2.54 0))
  (symbol "D_Schottky_1_1"
    (pin passive line (at -3.81 0 0) (length 2.54) (name "K") (number "1"))
    (pin passive line (at 3.81 0 180) (length 2.54) (name "A") (number "2"))))`,

	`(symbol "LM2596S-5" (in_bom yes) (on_board yes)
  (property "Reference" "U" (at -7.62 6.35 0))
  (property "Value" "LM2596S-5" (at 0 6.35 0))
  (property "Footprint" "Package_TO_SOT_SMD:TO-263-5_TabPin3" (at 0 -6.35 0))
  (symbol "LM2596S-5_0_1" (rectangle (start -7.62 5.08) (end 7.62 -5.08) (stroke (width 0.254) (type default)) (fill (type background))))
  (symbol "LM2596S-5_1_1"
    (pin power_in line (at -10.16 2.54 0) (length 2.54) (name "VIN") (number "1"))
    (pin output line (at 10.16 2.54 180) (length 2.54) (name "OUT") (number "2"))
    (pin power_in line (at 0 -7.62 90) (length 2.54) (name "GND") (number "3"))
    (pin input line (at 10.16 -2.54 180) (length 2.54) (name "FB") (number "4"))
    (pin input line (at -10.16 -2.54 0) (length 2.54) (name "~{ON}/OFF") (number "5"))))`,

	`(symbol "LM2596S-3.3" (in_bom yes) (on_board yes)
  (property "Reference" "U" (at -7.62 6.35 0))
  (property "Value" "LM2596S-3.3" (at 0 6.35 0))
  (property "Footprint" "Package_TO_SOT_SMD:TO-263-5_TabPin3" (at 0 -6.35 0))
  (symbol "LM2596S-3.3_1_1"
    (pin power_in line (at -10.16 2.54 0) (length 2.54) (name "VIN") (number "1"))
    (pin output line (at 10.16 2.54 180) (length 2.54) (name "OUT") (number "2"))
    (pin power_in line (at 0 -7.62 90) (length 2.54) (name "GND") (number "3"))
    (pin input line (at 10.16 -2.54 180) (length 2.54) (name "FB") (number "4"))
    (pin input line (at -10.16 -2.54 0) (length 2.54) (name "~{ON}/OFF") (number "5"))))`,

	`(symbol "AMS1117-3.3" (pin_names (offset 0.254)) (in_bom yes) (on_board yes)
  (property "Reference" "U" (at -3.81 3.175 0))
  (property "Footprint" "Package_TO_SOT_SMD:SOT-223-3_TabPin2" (at 0 5.08 0))
  (symbol "AMS1117-3.3_1_1"
    (pin power_in line (at 0 -7.62 90) (length 2.54) (name "GND") (number "1"))
    (pin power_out line (at 7.62 0 180) (length 2.54) (name "VO") (number "2"))
    (pin power_in line (at -7.62 0 0) (length 2.54) (name "VI") (number "3"))))`,

	`(symbol "Q_NMOS_GSD" (pin_names (offset 0) hide) (in_bom yes) (on_board yes)
  (property "Reference" "Q" (at 5.08 1.27 0))
  (symbol "Q_NMOS_GSD_1_1"
    (pin input line (at -5.08 0 0) (length 5.08) (name "G") (number "1"))
    (pin passive line (at 2.54 -5.08 90) (length 2.54) (name "S") (number "2"))
    (pin passive line (at 2.54 5.08 270) (length 2.54) (name "D") (number "3"))))`,

	`(symbol "Fuse" (pin_numbers hide) (pin_names (offset 0)) (in_bom yes) (on_board yes)
  (property "Reference" "F" (at 2.032 0 90))
  (symbol "Fuse_1_1"
    (pin passive line (at 0 3.81 270) (length 1.27) (name "~") (number "1"))
    (pin passive line (at 0 -3.81 90) (length 1.27) (name "~") (number "2"))))`,

	`(symbol "Conn_01x02" (pin_names (offset 1.016) hide) (in_bom yes) (on_board yes)
  (property "Reference" "J" (at 0 2.54 0))
  (symbol "Conn_01x02_1_1"
    (pin passive line (at -5.08 0 0) (length 3.81) (name "Pin_1") (number "1"))
    (pin passive line (at -5.08 -2.54 0) (length 3.81) (name "Pin_2") (number "2"))))`,

	`(symbol "Conn_01x04" (pin_names (offset 1.016) hide) (in_bom yes) (on_board yes)
  (property "Reference" "J" (at 0 5.08 0))
  (symbol "Conn_01x04_1_1"
    (pin passive line (at -5.08 2.54 0) (length 3.81) (name "Pin_1") (number "1"))
    (pin passive line (at -5.08 0 0) (length 3.81) (name "Pin_2") (number "2"))
    (pin passive line (at -5.08 -2.54 0) (length 3.81) (name "Pin_3") (number "3"))
    (pin passive line (at -5.08 -5.08 0) (length 3.81) (name "Pin_4") (number "4"))))`,

	`(symbol "USB_C_Receptacle_USB2.0" (pin_names (offset 1.016)) (in_bom yes) (on_board yes)
  (property "Reference" "J" (at -10.16 19.05 0))
  (symbol "USB_C_Receptacle_USB2.0_1_1"
    (pin passive line (at 0 -22.86 90) (length 3.81) (name "GND") (number "A1"))
    (pin passive line (at 15.24 15.24 180) (length 5.08) (name "VBUS") (number "A4"))
    (pin bidirectional line (at 15.24 10.16 180) (length 5.08) (name "CC1") (number "A5"))
    (pin bidirectional line (at 15.24 -2.54 180) (length 5.08) (name "D+") (number "A6"))
    (pin bidirectional line (at 15.24 2.54 180) (length 5.08) (name "D-") (number "A7"))
    (pin bidirectional line (at 15.24 -10.16 180) (length 5.08) (name "SBU1") (number "A8"))
    (pin passive line (at 15.24 15.24 180) (length 5.08) hide (name "VBUS") (number "A9"))
    (pin passive line (at 0 -22.86 90) (length 3.81) hide (name "GND") (number "A12"))
    (pin passive line (at 0 -22.86 90) (length 3.81) hide (name "GND") (number "B1"))
    (pin passive line (at 15.24 15.24 180) (length 5.08) hide (name "VBUS") (number "B4"))
    (pin bidirectional line (at 15.24 7.62 180) (length 5.08) (name "CC2") (number "B5"))
    (pin bidirectional line (at 15.24 -5.08 180) (length 5.08) (name "D+") (number "B6"))
    (pin bidirectional line (at 15.24 0 180) (length 5.08) (name "D-") (number "B7"))
    (pin bidirectional line (at 15.24 -12.7 180) (length 5.08) (name "SBU2") (number "B8"))
    (pin passive line (at 15.24 15.24 180) (length 5.08) hide (name "VBUS") (number "B9"))
    (pin passive line (at 0 -22.86 90) (length 3.81) hide (name "GND") (number "B12"))
    (pin passive line (at -7.62 -22.86 90) (length 3.81) (name "SHIELD") (number "S1"))))`,
}
