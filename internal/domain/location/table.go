package location

// defaultTable lists the coastal townships CWA publishes tide forecasts for,
// keyed by county. Region order is the order reports are rendered in.
var defaultTable = map[string][]Region{
	"新北市": {
		{Name: "貢寮區", ID: "65000260"},
		{Name: "瑞芳區", ID: "65000120"},
		{Name: "萬里區", ID: "65000280"},
		{Name: "金山區", ID: "65000270"},
		{Name: "石門區", ID: "65000220"},
		{Name: "三芝區", ID: "65000210"},
		{Name: "淡水區", ID: "65000100"},
		{Name: "八里區", ID: "65000230"},
		{Name: "林口區", ID: "65000170"},
	},
	"基隆市": {
		{Name: "中正區", ID: "10017010"},
		{Name: "中山區", ID: "10017050"},
		{Name: "安樂區", ID: "10017060"},
	},
	"桃園市": {
		{Name: "蘆竹區", ID: "68000050"},
		{Name: "大園區", ID: "68000060"},
		{Name: "觀音區", ID: "68000120"},
		{Name: "新屋區", ID: "68000110"},
	},
	"新竹縣": {
		{Name: "新豐鄉", ID: "10004060"},
	},
	"新竹市": {
		{Name: "北區", ID: "10018020"},
		{Name: "香山區", ID: "10018030"},
	},
	"苗栗縣": {
		{Name: "竹南鎮", ID: "10005040"},
		{Name: "後龍鎮", ID: "10005060"},
		{Name: "通霄鎮", ID: "10005030"},
		{Name: "苑裡鎮", ID: "10005020"},
	},
	"臺中市": {
		{Name: "大甲區", ID: "66000110"},
		{Name: "大安區", ID: "63000030"},
		{Name: "清水區", ID: "66000120"},
		{Name: "梧棲區", ID: "66000140"},
		{Name: "龍井區", ID: "66000250"},
	},
	"彰化縣": {
		{Name: "伸港鄉", ID: "10007050"},
		{Name: "線西鄉", ID: "10007040"},
		{Name: "鹿港鎮", ID: "10007020"},
		{Name: "福興鄉", ID: "10007060"},
		{Name: "芳苑鄉", ID: "10007230"},
		{Name: "大城鄉", ID: "10007240"},
	},
	"雲林縣": {
		{Name: "麥寮鄉", ID: "10009130"},
		{Name: "臺西鄉", ID: "10009160"},
		{Name: "四湖鄉", ID: "10009180"},
		{Name: "口湖鄉", ID: "10009190"},
	},
	"嘉義縣": {
		{Name: "東石鄉", ID: "10010090"},
		{Name: "布袋鎮", ID: "10010030"},
	},
	"臺南市": {
		{Name: "北門區", ID: "67000170"},
		{Name: "將軍區", ID: "67000160"},
		{Name: "七股區", ID: "67000150"},
		{Name: "安南區", ID: "67000350"},
		{Name: "安平區", ID: "67000360"},
		{Name: "南區", ID: "66000030"},
	},
	"高雄市": {
		{Name: "茄萣區", ID: "64000260"},
		{Name: "永安區", ID: "64000270"},
		{Name: "彌陀區", ID: "64000280"},
		{Name: "梓官區", ID: "64000290"},
		{Name: "楠梓區", ID: "64000040"},
		{Name: "左營區", ID: "64000030"},
		{Name: "鼓山區", ID: "64000020"},
		{Name: "旗津區", ID: "64000100"},
		{Name: "前鎮區", ID: "64000090"},
		{Name: "小港區", ID: "64000110"},
		{Name: "林園區", ID: "64000130"},
	},
	"屏東縣": {
		{Name: "新園鄉", ID: "10013170"},
		{Name: "東港鎮", ID: "10013030"},
		{Name: "琉球鄉", ID: "10013220"},
		{Name: "林邊鄉", ID: "10013190"},
		{Name: "佳冬鄉", ID: "10013210"},
		{Name: "枋寮鄉", ID: "10013160"},
		{Name: "枋山鄉", ID: "10013250"},
		{Name: "車城鄉", ID: "10013230"},
		{Name: "恆春鎮", ID: "10013040"},
		{Name: "滿州鄉", ID: "10013240"},
		{Name: "牡丹鄉", ID: "10013330"},
	},
	"臺東縣": {
		{Name: "達仁鄉", ID: "10014150"},
		{Name: "大武鄉", ID: "10014100"},
		{Name: "蘭嶼鄉", ID: "10014160"},
		{Name: "太麻里鄉", ID: "10014090"},
		{Name: "卑南鄉", ID: "10014040"},
		{Name: "臺東市", ID: "10014010"},
		{Name: "綠島鄉", ID: "10014110"},
		{Name: "東河鄉", ID: "10014070"},
		{Name: "成功鎮", ID: "10014020"},
		{Name: "長濱鄉", ID: "10014080"},
	},
	"花蓮縣": {
		{Name: "豐濱鄉", ID: "10015080"},
		{Name: "壽豐鄉", ID: "10015060"},
		{Name: "吉安鄉", ID: "10015050"},
		{Name: "花蓮市", ID: "10015010"},
		{Name: "新城鄉", ID: "10015040"},
		{Name: "秀林鄉", ID: "10015110"},
	},
	"宜蘭縣": {
		{Name: "南澳鄉", ID: "10002120"},
		{Name: "蘇澳鎮", ID: "10002030"},
		{Name: "五結鄉", ID: "10002090"},
		{Name: "壯圍鄉", ID: "10002060"},
		{Name: "頭城鎮", ID: "10002040"},
	},
	"澎湖縣": {
		{Name: "馬公市", ID: "10016010"},
		{Name: "湖西鄉", ID: "10016020"},
		{Name: "白沙鄉", ID: "10016030"},
		{Name: "西嶼鄉", ID: "10016040"},
	},
	"金門縣": {
		{Name: "金寧鄉", ID: "09020040"},
		{Name: "金城鎮", ID: "09020010"},
		{Name: "烈嶼鄉", ID: "09020050"},
		{Name: "金湖鎮", ID: "09020030"},
		{Name: "金沙鎮", ID: "09020020"},
		{Name: "烏坵鄉", ID: "09020060"},
	},
	"連江縣": {
		{Name: "東引鄉", ID: "09007040"},
		{Name: "北竿鄉", ID: "09007020"},
		{Name: "南竿鄉", ID: "09007010"},
		{Name: "莒光鄉", ID: "09007030"},
	},
}
