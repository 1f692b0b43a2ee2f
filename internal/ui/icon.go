package ui

// iconBytes is the 16x16 PNG shown in the system tray.
var iconBytes = []byte{
	0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a, 0x00, 0x00, 0x00, 0x0d,
	0x49, 0x48, 0x44, 0x52, 0x00, 0x00, 0x00, 0x10, 0x00, 0x00, 0x00, 0x10,
	0x08, 0x06, 0x00, 0x00, 0x00, 0x1f, 0xf3, 0xff, 0x61, 0x00, 0x00, 0x00,
	0x22, 0x49, 0x44, 0x41, 0x54, 0x78, 0xda, 0x63, 0x50, 0x50, 0xd1, 0xfe,
	0x4f, 0x09, 0x66, 0x18, 0x5c, 0x06, 0xf8, 0xf7, 0x7d, 0x27, 0x0a, 0x8f,
	0x1a, 0x30, 0x6a, 0x00, 0x6d, 0x0d, 0x18, 0x9a, 0x99, 0x09, 0x00, 0xaa,
	0x25, 0xf9, 0x84, 0xf3, 0x5a, 0xfb, 0x21, 0x00, 0x00, 0x00, 0x00, 0x49,
	0x45, 0x4e, 0x44, 0xae, 0x42, 0x60, 0x82,
}
