package discovery

import (
	"strings"
)

// ouiVendors maps the vendor-identifying 3-octet MAC prefix to a vendor
// name. The table covers the prefixes commonly seen on home and office
// segments; unmatched prefixes simply leave the vendor field empty.
var ouiVendors = map[string]string{
	"00:03:93": "Apple",
	"00:0C:29": "VMware",
	"00:11:32": "Synology",
	"00:15:5D": "Microsoft Hyper-V",
	"00:17:88": "Philips Lighting",
	"00:1A:11": "Google",
	"00:50:56": "VMware",
	"00:E0:4C": "Realtek",
	"08:00:27": "Oracle VirtualBox",
	"18:B4:30": "Nest Labs",
	"28:6C:07": "Xiaomi",
	"2C:F0:5D": "Micro-Star International",
	"30:9C:23": "Micro-Star International",
	"34:94:54": "Espressif",
	"38:F9:D3": "Apple",
	"3C:5A:B4": "Google",
	"40:B0:76": "ASUSTek",
	"44:65:0D": "Amazon Technologies",
	"48:D6:D5": "Google",
	"50:C7:BF": "TP-Link",
	"52:54:00": "QEMU",
	"5C:CF:7F": "Espressif",
	"60:01:94": "Espressif",
	"68:FF:7B": "TP-Link",
	"74:DA:88": "TP-Link",
	"78:8A:20": "Ubiquiti",
	"7C:D9:5C": "Google",
	"80:2A:A8": "Ubiquiti",
	"84:D6:D0": "Amazon Technologies",
	"8C:85:90": "Apple",
	"90:09:D0": "Synology",
	"94:10:3E": "Belkin",
	"9C:B6:D0": "Rivet Networks",
	"A0:36:BC": "ASUSTek",
	"A4:2B:B0": "TP-Link",
	"A8:40:41": "Dragino",
	"AC:84:C6": "TP-Link",
	"B0:BE:76": "TP-Link",
	"B4:FB:E4": "Ubiquiti",
	"B8:27:EB": "Raspberry Pi Foundation",
	"BC:A5:11": "NETGEAR",
	"C0:56:27": "Belkin",
	"C4:41:1E": "Belkin",
	"CC:32:E5": "TP-Link",
	"D8:3A:DD": "Raspberry Pi Trading",
	"DC:A6:32": "Raspberry Pi Trading",
	"E4:5F:01": "Raspberry Pi Trading",
	"E8:DE:27": "TP-Link",
	"EC:08:6B": "TP-Link",
	"F0:9F:C2": "Ubiquiti",
	"F4:F5:D8": "Google",
	"F8:1A:67": "TP-Link",
	"FC:EC:DA": "Ubiquiti",
}

const ouiPrefixLen = 8 // "AA:BB:CC"

// VendorForMAC returns the vendor registered for the MAC's OUI prefix, or an
// empty string when the prefix is not in the table. The MAC is expected in
// canonical uppercase colon form.
func VendorForMAC(mac string) string {
	if len(mac) < ouiPrefixLen {
		return ""
	}
	return ouiVendors[strings.ToUpper(mac[:ouiPrefixLen])]
}
