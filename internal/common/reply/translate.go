package reply

import "applets/internal/common/app"

// TranslateKey переводит ключ ответа в подпись для текстового вывода.
func TranslateKey(key string) string {
	switch key {
	case "":
		return ""
	case "network":
		return app.T_("Network")
	case "wifiEnabled":
		return app.T_("Wi-Fi")
	case "wirelessHardwareEnabled":
		return app.T_("Wi-Fi Hardware Switch")
	case "networkingEnabled":
		return app.T_("Networking")
	case "connectivity":
		return app.T_("Connectivity")
	case "activeConnections":
		return app.T_("Active Connections")
	case "id":
		return app.T_("Identifier")
	case "type":
		return app.T_("Type")
	case "state":
		return app.T_("State")
	case "battery":
		return app.T_("Battery")
	case "device":
		return app.T_("Device")
	case "isPresent":
		return app.T_("Present")
	case "percentage":
		return app.T_("Charge Level")
	case "charging":
		return app.T_("Charging")
	case "timeToEmpty":
		return app.T_("Time To Empty")
	case "timeToFull":
		return app.T_("Time To Full")
	case "remaining":
		return app.T_("Remaining")
	case "iconName":
		return app.T_("Icon")
	case "kbdBacklight":
		return app.T_("Keyboard Backlight")
	case "brightness":
		return app.T_("Brightness")
	case "maxBrightness":
		return app.T_("Maximum Brightness")
	case "fraction":
		return app.T_("Brightness Level")
	case "name":
		return app.T_("Name")
	case "applet":
		return app.T_("Applet")
	case "event":
		return app.T_("Event")
	case "data":
		return app.T_("Data")
	case "transaction":
		return app.T_("Transaction")
	default:
		return app.T_(key)
	}
}
