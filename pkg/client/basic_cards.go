package client

// basicCardIDs is the starter card set every account can field
// regardless of collection contents. Merged into every owned-cards
// read; duplicates with the collection are dropped during resolution.
var basicCardIDs = []int{
	157, 158, 159, 160, 395, 396, 397, 398, 399, 161, 162, 163, 167, 400, 401, 402, 403, 440,
	168, 169, 170, 171, 381, 382, 383, 384, 385, 172, 173, 174, 178, 386, 387, 388, 389, 437,
	179, 180, 181, 182, 334, 367, 368, 369, 370, 371, 183, 184, 185, 189, 372, 373, 374, 375,
	439, 146, 147, 148, 149, 409, 410, 411, 412, 413, 150, 151, 152, 156, 414, 415, 416, 417,
	135, 136, 137, 138, 353, 354, 355, 356, 357, 139, 140, 141, 145, 358, 359, 360, 361,
	438, 224, 190, 191, 192, 423, 424, 425, 426, 194, 195, 196, 427, 428, 429, 441,
}
