package camera

import "wavecam/pkg/bitmask"

// Height enable-masks installed by a Width commit. The 2K mask drops the
// six tallest heights, which exceed the sensor at reduced zoom.
var (
	HeightEnable4K = bitmask.FromWords(0x000000000FFFFFFF, 0, 0, 0)
	HeightEnable2K = bitmask.FromWords(0x000000000FFFFFC0, 0, 0, 0)
)

var modeTable = ValueTable{
	Name:    "  MODE  ",
	Format:  " %6d ",
	Display: DisplayLabel,
	Entries: []ValueEntry{
		{" STANDBY", 0},
		{"   REC  ", 1},
		{"PLAYBACK", 2},
	},
}

var widthTable = ValueTable{
	Name:    "  WIDTH ",
	Format:  "  %4d x",
	Display: DisplayLabel,
	Entries: []ValueEntry{
		{"  4096 x", 4096},
		{"  2048 x", 2048},
	},
}

// Heights are in descending magnitude; the resolver relies on that order.
var heightTable = ValueTable{
	Name:    " HEIGHT ",
	Format:  "%6dp ",
	Display: DisplayFormat,
	Entries: []ValueEntry{
		{"  3072p ", 3072},
		{"  2304p ", 2304},
		{"  2176p ", 2176},
		{"  2048p ", 2048},
		{"  1760p ", 1760},
		{"  1600p ", 1600},
		{"  1536p ", 1536},
		{"  1440p ", 1440},
		{"  1280p ", 1280},
		{"  1152p ", 1152},
		{"  1120p ", 1120},
		{"  1088p ", 1088},
		{"  1024p ", 1024},
		{"   960p ", 960},
		{"   880p ", 880},
		{"   800p ", 800},
		{"   768p ", 768},
		{"   720p ", 720},
		{"   640p ", 640},
		{"   560p ", 560},
		{"   512p ", 512},
		{"   480p ", 480},
		{"   384p ", 384},
		{"   360p ", 360},
		{"   256p ", 256},
		{"   240p ", 240},
		{"   192p ", 192},
		{"   128p ", 128},
	},
}

var fpsTable = ValueTable{
	Name:    "   FPS  ",
	Format:  "%4d fps",
	Display: DisplayFormat,
	Entries: []ValueEntry{
		{"USER fps", 111},
		{" MAX fps", 444},
		{"  24 fps", 24},
		{"  25 fps", 25},
		{"  30 fps", 30},
		{"  48 fps", 48},
		{"  50 fps", 50},
		{"  60 fps", 60},
		{"  72 fps", 72},
		{"  90 fps", 90},
		{"  96 fps", 96},
		{" 120 fps", 120},
		{" 144 fps", 144},
		{" 150 fps", 150},
		{" 168 fps", 168},
		{" 180 fps", 180},
		{" 192 fps", 192},
		{" 210 fps", 210},
		{" 216 fps", 216},
		{" 240 fps", 240},
		{" 264 fps", 264},
		{" 270 fps", 270},
		{" 288 fps", 288},
		{" 300 fps", 300},
		{" 312 fps", 312},
		{" 330 fps", 330},
		{" 336 fps", 336},
		{" 360 fps", 360},
		{" 384 fps", 384},
		{" 390 fps", 390},
		{" 408 fps", 408},
		{" 420 fps", 420},
		{" 480 fps", 480},
		{" 600 fps", 600},
		{" 720 fps", 720},
		{" 840 fps", 840},
		{" 960 fps", 960},
		{"1080 fps", 1080},
		{"1200 fps", 1200},
		{"1320 fps", 1320},
		{"1440 fps", 1440},
		{"1680 fps", 1680},
		{"1920 fps", 1920},
		{"2160 fps", 2160},
		{"2400 fps", 2400},
		{"2640 fps", 2640},
		{"2880 fps", 2880},
		{"3120 fps", 3120},
		{"3360 fps", 3360},
		{"3600 fps", 3600},
		{"3840 fps", 3840},
		{"4320 fps", 4320},
		{"4800 fps", 4800},
		{"5280 fps", 5280},
		{"5760 fps", 5760},
		{"6240 fps", 6240},
		{"6720 fps", 6720},
		{"7200 fps", 7200},
		{"7680 fps", 7680},
		{"8160 fps", 8160},
		{"8640 fps", 8640},
		{"9120 fps", 9120},
		{"9600 fps", 9600},
	},
}

// Shutter angles step in half-stops from 360 degrees. The odd entries are
// irrational; compare against these magnitudes, never a re-derived fraction.
var shutterTable = ValueTable{
	Name:    " SHUTTER",
	Format:  " %6d ",
	Display: DisplayLabel,
	Entries: []ValueEntry{
		{"   360* ", 360.0},
		{"   270* ", 270.0},
		{"   180* ", 180.0},
		{"   135* ", 135.0},
		{"    90* ", 90.0},
		{"  63.6* ", 63.63961030678927},
		{"    45* ", 45.0},
		{"  31.8* ", 31.81980515339463},
		{"  22.5* ", 22.5},
		{"  15.9* ", 15.909902576697313},
		{"  11.3* ", 11.25},
		{"  7.96* ", 7.9549512883486555},
		{"  5.63* ", 5.625},
		{"  3.98* ", 3.9774756441743278},
		{"  2.81* ", 2.8125},
		{"  1.99* ", 1.9887378220871634},
		{"  1.41* ", 1.40625},
		{"  0.99* ", 0.9943689110435816},
		{"  0.70* ", 0.703125},
	},
}

var formatTable = ValueTable{
	Name:    " FORMAT ",
	Format:  " %6d ",
	Display: DisplayName,
	Entries: []ValueEntry{
		{"Cancel  ", 0},
		{"Confirm ", 1},
	},
}

type initialState struct {
	table  *ValueTable
	val    int
	enable bitmask.Mask
	user   bitmask.Mask
}

func initialStates() [NumSettings]initialState {
	return [NumSettings]initialState{
		Mode:    {table: &modeTable, val: ModeStandby, enable: bitmask.FromWords(0x5, 0, 0, 0)},
		Width:   {table: &widthTable, val: Width4K, enable: bitmask.FromWords(0x3, 0, 0, 0)},
		Height:  {table: &heightTable, val: 2, enable: HeightEnable4K},
		FPS:     {table: &fpsTable, val: 1, enable: bitmask.FromWords(0x7FFFFFFF, 0, 0, 0), user: bitmask.FromWords(0x1, 0, 0, 0)},
		Shutter: {table: &shutterTable, val: 2, enable: bitmask.FromWords(0x7FFFF, 0, 0, 0)},
		Format:  {table: &formatTable, val: FormatCancel, enable: bitmask.FromWords(0x3, 0, 0, 0)},
	}
}
