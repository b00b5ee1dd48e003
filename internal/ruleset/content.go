package ruleset

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/goccy/go-json"
)

// Content is the data half of the rule set: the keyword and site lists the
// compiled catalog is built from. Lists are regex fragments unless noted;
// they are joined into alternations at compile time and never mutated after
// load.
type Content struct {
	// BadKeywords always flag, wrapped in word boundaries.
	BadKeywords []string `json:"bad_keywords"`
	// BadKeywordsUnbounded are matched without word boundaries; fragments
	// here carry their own anchoring.
	BadKeywordsUnbounded []string `json:"bad_keywords_unbounded"`
	// WatchedKeywords are plain literals, flagged at a laxer reputation
	// ceiling than the blacklist proper.
	WatchedKeywords []string `json:"watched_keywords"`
	// PatternWebsites match URL shapes rather than specific domains.
	PatternWebsites []string `json:"pattern_websites"`
	// BlacklistedWebsites are known-bad domains.
	BlacklistedWebsites []string `json:"blacklisted_websites"`
	// BlacklistedUsernames flag the account regardless of post content.
	BlacklistedUsernames []string `json:"blacklisted_usernames"`
	// Cities are plain literals; they expand \L<city> references in
	// patterns and feed the localized link-text checks.
	Cities []string `json:"cities"`
}

// Load reads a content file. Missing lists fall back to the built-in
// defaults rather than to empty, so a partial file narrows nothing.
func Load(path string) (*Content, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read content file: %w", err)
	}
	c := DefaultContent()
	if err := json.Unmarshal(raw, c); err != nil {
		return nil, fmt.Errorf("parse content file %s: %w", path, err)
	}
	return c, nil
}

// listRefRe matches \L<name> references inside pattern sources.
var listRefRe = regexp.MustCompile(`\\L<([A-Za-z_][A-Za-z0-9_]*)>`)

// CompilePattern compiles a pattern source after expanding every \L<name>
// reference into a non-capturing alternation of the named list's entries,
// each quoted as a literal. Unknown list names and empty lists are
// compile-time errors; a silently empty alternation would match everywhere.
func CompilePattern(src string, lists map[string][]string) (*regexp.Regexp, error) {
	var expandErr error
	expanded := listRefRe.ReplaceAllStringFunc(src, func(ref string) string {
		name := listRefRe.FindStringSubmatch(ref)[1]
		entries, ok := lists[name]
		if !ok {
			expandErr = fmt.Errorf("pattern references unknown list %q", name)
			return ref
		}
		if len(entries) == 0 {
			expandErr = fmt.Errorf("pattern references empty list %q", name)
			return ref
		}
		quoted := make([]string, len(entries))
		for i, e := range entries {
			quoted[i] = regexp.QuoteMeta(e)
		}
		return "(?:" + strings.Join(quoted, "|") + ")"
	})
	if expandErr != nil {
		return nil, expandErr
	}
	re, err := regexp.Compile(expanded)
	if err != nil {
		return nil, fmt.Errorf("compile pattern %q: %w", src, err)
	}
	return re, nil
}

// lists returns the named lists available for \L<> expansion.
func (c *Content) lists() map[string][]string {
	return map[string][]string{
		"city": c.Cities,
	}
}

// DefaultContent is the built-in rule-set data, maintained from the spam
// waves the network actually sees.
func DefaultContent() *Content {
	return &Content{
		BadKeywords: []string{
			"baba ?ji", "fifa.{0,20}coins?", "fut ?coins?", "vashik[ae]r[ae]n", "badoo ?support",
			"avg ?antivirus", "norton ?antivirus ?(support|helpline)", "spell ?caster", "black ?magic ?specialist",
			"love ?marriage ?(problem|specialist)", "penis ?enlargement", "male ?enhancement", "七七计划",
			"enlarge ?your ?penis", "buy ?(cheap|herbal) ?viagra", "viagra ?online", "payday ?loans?",
			"lottery ?spells?", "escorts? ?(service|agency)", "call ?girls?", "russian ?escorts?",
			"packers ?(and|&) ?movers", "vashikaran ?specialist", "intercaste ?marriage", "husband ?wife ?dispute",
			"dua ?for ?love", "wazifa", "istikhara", "manpasand ?shadi", "kala ?jadu",
			"hack ?(whatsapp|facebook|gmail) ?account", "tech ?support ?(number|phone)", "printer ?support ?number",
			"quickbooks ?support", "binary ?options? ?(trading|recovery)", "forex ?signals?",
			"weight ?loss ?(pills?|supplement)", "garcinia ?cambogia", "keto ?(diet|pills?)", "cbd ?(oil|gummies)",
			"skin ?whitening ?cream", "breast ?enlargement", "satta ?king", "satta ?matka",
		},
		BadKeywordsUnbounded: []string{
			"ಌ", "babyli(ss|cious)", "garcinia", "cambogia", "acai ?berr",
			"(eye|skin|aging) ?cream", "b ?a ?m ?((w ?o ?w)|(w ?a ?r))", "online ?it ?guru",
			"watch2live", "cogniq", "(serum|lift) ?eye", "tophealth", "poker[ -]?online",
			"caralluma", "anti[- ]?aging", "lumisse", "(ultra|berry|body)[ -]?ketone",
			"(cogni|oro)[ -]?(lift|plex)", "diabazole", "forskolin", "tonaderm", "luma(genex|lift)",
			"(skin|face|eye)[- ]?(serum|therapy|hydration|tip|renewal|gel|lotion|cream)",
			"(skin|eye)[- ]?lift", "(skin|herbal) ?care", "nuando[ -]?instant", "\\bnutra", "nitro[ -]?slim",
			"aimee[ -]?cream", "slimatrex", "cosmitone", "smile[ -]?pro[ -]?direct", "bellavei", "opuderm",
			"follicure", "kidney[ -]?bean[ -]?extract", "ecoflex", "\\brsgold", "goji ?xtreme", "lumagenex",
			"kreatine", "packers.{0,15}(movers|logistic).{0,25}</a>", "guaranteedprofitinvestment",
			"(brain|breast|male|penile|penis)[- ]?(enhance|enlarge|improve|boost|plus|peak)",
			"renuva(cell|derm)", " %uh ", " %ah ", "svelme", "viktminskning",
			"unique(doc)?producers", "green ?tone ?pro", "troxyphen", "seremolyn", "revolyn",
			"(?:networking|cisco|sas|hadoop|mapreduce|oracle|dba|php|sql|javascript|js|java|designing|marketing|" +
				"salesforce|joomla)( certification)? (courses?|training).{0,25}</a>",
			`(?:design|development|compan(y|ies)|training|courses?|automation)(\b.{1,8}\b)?\L<city>\b`,
			"Ｃ[Ｏ0]Ｍ", "no2factor", "no2blast", "sunergetic", "capilux", "sante ?avis",
			"enduros", "dianabol", `ICQ#?\d{4}-?\d{5}`, "lumieres", "viarex", "revimax",
			"celluria", "viatropin", "(meg|test)adrox", "nordic ?loan ?firm", `safflower\Woil`,
			"(essay|resume|article|dissertation|thesis) ?writing ?service", "satta ?matka",
			`rams[ey]+\W?dave`,
		},
		WatchedKeywords: []string{
			"online training", "binary option", "data recovery", "pdf converter", "love problem",
			"baby names", "herbal", "pest control", "astrologer", "credit score", "muscle building",
			"web hosting", "seo services", "testosterone", "numerology", "hair loss", "honeymoon packages",
			"taxi service", "limo service", "cash back", "coupon code", "bodybuilding", "dietary supplement",
		},
		PatternWebsites: []string{
			`(enstella|recoverysoftware|removevirus|support(number|help|quickbooks)|techhelp|calltech|exclusive|` +
				`onlineshop|video(course|classes)|vipmodel|wholesale|inboxmachine|(get|buy)cheap|` +
				`escort|diploma|(govt|government)jobs|extramoney|earnathome|spell(caster|specialist)|profits|` +
				`seo-?(tool|service|trick|market)|onsale|fat(burn|loss)|(\.|//|best)cheap|online-?(training|solution))` +
				`[\w-]*?\.(co|net|org|in(\W|fo)|us|ir|wordpress|blogspot|tumblr|webs\.)`,
			`(rs\d?gold|rssong|runescapegold|maxgain|e-cash|mothers?day|phone-?number|fullmovie|tvstream|` +
				`trainingin|dissertation|(placement|research)-?(paper|statement|essay)|digitalmarketing|infocampus|` +
				`cracked\w{3}|bestmover|relocation|\w{4}mortgage|loans|revenue|testo[-bsx]|cleanse|cleansing|detox|supplement|` +
				`lubricant|serum|wrinkle|topcare|freetrial)[\w-]*?\.(co|net|org|in(\W|fo)|us|` +
				`wordpress|blogspot|tumblr|webs\.)`,
			`(drivingschool|crack-?serial|serial-?(key|crack)|freecrack|appsfor(pc|mac)|probiotic|remedies|heathcare|` +
				`sideeffect|meatspin|packers\S{0,3}movers|(buy|sell)\S{0,12}cvv|goatse|burnfat|gronkaffe|muskel|` +
				`tes(tos)?terone|nitric(storm|oxide)|masculin|menhealth|intohealth|babaji|spellcaster|potentbody|slimbody|` +
				`moist|lefair|xtrm|factorx|endorev|ketone)[\w-]*?\.(co|net|org|in(\W|fo)|us|` +
				`wordpress|blogspot|tumblr|webs\.)`,
			`(moving|\w{10}spell|[\w-]{3}password|\w\dfacts|\Btoyshop|[\w-]{5}cheats|` +
				`clothing|shoes(inc)?|cheatcode|cracks|credits|-wallet|refunds|truo?ng|viet|` +
				`trang)\.(co|net|org|in(\W|fo)|us)`,
			`(health|earn|max|cash|wage|pay|pocket|cent|today)[\w-]{0,6}\d+\.com`,
			`(//|www\.)healthy?\w{5,}\.com`,
			`https?://[\w.-]\.repair\W`, `https?://[\w.-]{10,}\.(top|help)\W`,
			`filefix(er)?\.com`, `\.page\.tl\W`, `infotech\.(com|net|in)`,
			`\.(com|net)/(xtra|muscle)[\w-]`, `http\S*?\Wfor-sale\W`,
			`fifa\d+[\w-]*?\.com`, `[\w-](giveaway|jackets|supplys|male)\.com`,
			`((essay|resume|click2)\w{6,}|(essays|(research|term)paper|examcollection|[\w-]{5}writing|` +
				`writing[\w-]{5})[\w-]*?)\.(co|net|org|in(\W|fo)|us)`,
			`(top|best|expert)\d\w{0,15}\.in\W`, `\dth(\.co)?\.in`, `(jobs|in)\L<city>\.in`,
			`(corrupt|repair)[\w-]*?\.blogspot`,
			`http\S*?(yahoo|gmail|hotmail|outlook|office|microsoft)[\w-]{0,10}` +
				`(account|tech|customer|support|service|phone|help)[\w-]{0,10}(service|` +
				`care|help|recovery|support|phone|number)`,
			`http\S*?(essay|resume|thesis|dissertation|paper)-?writing`,
			`fix[\w-]*?(files?|tool(box)?)\.com`, `(repair|recovery|fix)tool(box)?\.(co|net|org)`,
			`smart(pc)?fixer\.(co|net|org)`,
			`password[\w-]*?(cracker|unlocker|reset|buster|master|remover)\.(co|net)`,
			`crack[\w-]*?(serial|soft|password)[\w-]*?\.(co|net)`,
			`(downloader|pdf)converter\.(com|net)`,
			`ware[\w-]*?download\.(com|net|info|in\W)`,
			`((\d|\w{3})livestream|livestream(ing|s))[\w]*?\.(com|net|tv)`, `\w+vs\w+live\.(com|net|tv)`,
			`(play|watch|cup|20)[\w-]*?(live|online)\.(com|net|tv)`, `worldcup\d[\w-]*?\.(com|net|tv|blogspot)`,
			`https?://(\w{5,}tutoring\w*|cheat[\w.-]{3,}|xtreme[\w-]{5,})\.`,
			`(platinum|paying|acai|buy|premium|premier|ultra|thebest|best|[/.]try)[\w]{10,}\.(co|net|org|in(\W|fo)|us)`,
			`(training|institute|marketing)[\w-]{6,}[\w.-]*?\.(co|net|org|in(\W|fo)|us)`,
			`[\w-](courses?|training)[\w-]*?\.in/`, `\w{9}(buy|roofing)\.(co|net|org|in(\W|fo)|us)`,
			`(vitamin|dive|hike|love|strong|ideal|natural|pro|magic|beware|top|best|free|cheap|allied|nutrition|` +
				`prostate)[\w-]*?health[\w-]*?\.(co|net|org|in(\W|fo)|us|wordpress|blogspot|tumblr|webs\.)`,
			`(eye|skin|age|aging)[\w-]*?cream[\w-]*?\.(co|net|org|in(\W|fo)|us|wordpress|blogspot|tumblr|webs\.)`,
			`-(poker|jobs)\.com`, `send[\w-]*?india\.(co|net|org|in(\W|fo)|us)`,
			`(file|photo|android|iphone)recovery[\w-]*?\.(co|net|org|in(\W|fo)|us)`,
			`(videos?|movies?|watch)online[\w-]*?\.`, `hd(video|movie)[\w-]*?\.`,
			`customer(service|support)[\w-]*?\.(co|net|org|in(\W|fo)|us)`,
			`conferences?alert[\w-]*?\.(co|net|org|in(\W|fo)|us)`,
			`\Wseo[\w-]{10,}\.(com|net|in\W)`,
			`backlink[\w-]*?\.(com|net|de|blogspot)`,
			`(software|developers|packers|movers|logistic|service)[\w-]*?india\.(com|in\W)`,
			`scam[\w-]*?(book|alert|register|punch)[\w-]*?\.(co|net|org|in(\W|fo)|us)`,
			`http\S*?crazy(mass|bulk)`, `http\S*\.com\.com[/"<]`,
			`https?://[^/\s]{8,}healer`,
			`reddit\.com/\w{6}/"`,
			`world[\w-]*?cricket[\w-]*?\.(co|net|org|in(\W|fo)|us)`,
			`(credit|online)[\w-]*?loan[\w-]*?\.(co|net|org|in(\W|fo)|us)`,
			`worldcup\d+live\.(com?|net|org|in(\W|fo)|us)`,
			`((concrete|beton)-?mixer|crusher)[\w-]*?\.(co|net)`,
			`\w{7}formac\.(com|net|org)`,
			`sex\.(com|net|info)`, `https?://(www\.)?sex`,
			`[\w-]{12}\.(webs|66ghz)\.com`, `online\.us[/"<]`,
			`ptvsports\d+.com`,
			`youth\Wserum`,
			`buyviewsutube`,
			`(?:celebrity-?)?net-?worth`, `richestcelebrities`,
		},
		BlacklistedWebsites: []string{
			`powerigfaustralia\.net`, `supplementscart\.com`, `rxhealthguide\.com`, `fitwaypoint\.com`,
			`supplements4help\.com`, `usahealthguide\.com`, `drozhelp\.com`, `healthyminimag\.com`,
			`evaherbalist\.com`, `myfitnesspharma\.com`, `trybionutrition\.com`, `nutritionsofhealth\.com`,
			`packersmoverscompany\.in`, `top10quickbooksupport\.com`, `routernumbersupport\.com`,
			`customerservicehelpnumber\.com`, `antivirussupportnumbers\.com`, `printersupporthelp\.net`,
			`babasupport\.org`, `monktech\.net`, `usatechblog\.com`, `techcloudpro\.com`,
			`escortserviceindelhi\.in`, `russianescortsindelhi\.in`, `vashikaranspecialists\.com`,
			`lovemarriagespecialist\.in`, `blackmagicspecialist\.info`, `muslimvashikaran\.com`,
		},
		BlacklistedUsernames: []string{
			`(?:vashikaran|astrologer|loveguru) ?(?:specialist|baba)?`, `packers ?and ?movers`,
			`escorts? ?(?:service|agency)`, `tech ?support ?(?:number|help)`, `quickbooks ?support`,
			`spell ?caster`, `(?:herbal|ayurvedic) ?(?:doctor|clinic)`, `seo ?(?:expert|services)`,
		},
		Cities: []string{
			"Agra", "Amritsar", "Bangalore", "Bhopal", "Chandigarh",
			"Chennai", "Coimbatore", "Delhi", "Dubai", "Durgapur",
			"Ghaziabad", "Hyderabad", "Jaipur", "Jalandhar", "Kolkata",
			"Ludhiana", "Mumbai", "Madurai", "Patna", "Portland",
			"Rajkot", "Surat", "Telangana", "Udaipur", "Uttarakhand",
			"Noida", "Pune", "Rohini",
			// not cities, but the spam templates use them the same way
			"India", "Pakistan",
			"Sri Lanka", "Srilanka", "Srilankan",
		},
	}
}
