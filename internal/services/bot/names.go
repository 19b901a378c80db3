package bot

// botNames is the pool of usernames bots join under. The mix of plain
// first names, name+digits, and hyphenated handles mirrors what real chat
// users pick, so a freshly joined bot does not stand out by its name alone.
var botNames = []string{
	"ollie",
	"maria",
	"jake",
	"nina",
	"theo",
	"priya",
	"marcus",
	"elena",
	"sam",
	"ruby",
	"dev",
	"kasia",
	"leo",
	"amara",
	"finn",
	"zoe",
	"omar",
	"ivy",
	"callum",
	"tasha",
	"alex99",
	"jess_21",
	"mike2004",
	"sara_h",
	"danny7",
	"kat_x",
	"rob88",
	"lindz",
	"tommy_o",
	"bea_23",
	"chris_m",
	"nat2001",
	"joe1998",
	"em_j",
	"lukas_k",
	"mia444",
	"ben_dover1",
	"cleo_9",
	"vik_r",
	"hana_s",
	"grey-wolf",
	"night-owl",
	"pixel-punk",
	"salty-dog",
	"lazy-susan",
	"moon-cake",
	"sofa-king",
	"green-tea",
	"idle-hands",
	"stray-cat",
	"low-battery",
	"cold-brew",
	"late-riser",
	"left-sock",
	"quiet-storm",
	"spare-key",
	"half-asleep",
	"dial-up",
	"back-row",
	"loose-leaf",
}
