/*
b02k 实现 TUPAS 认证 B02K 应答报文的校验。 TUPAS 是芬兰银行业用于网银身份认证的协议，
用户在银行侧完成认证后，银行将认证结果以回调 URL 的形式送回商户，商户校验其中的签名以确认结果未被篡改。

# 回调 URL

认证结果承载在回调 URL 的 query string 上，包含十个参数。前九个是报文字段，顺序即签名顺序：

	B02K_VERS      报文的版本号
	B02K_TIMESTMP  银行侧的时间戳
	B02K_IDNBR     银行侧的流水号
	B02K_STAMP     商户发起认证时给定的唯一标识
	B02K_CUSTNAME  客户的姓名
	B02K_KEYVERS   签名密钥的版本
	B02K_ALG       签名算法的标识，“03”表示 SHA-256
	B02K_CUSTID    客户的标识
	B02K_CUSTTYPE  客户的类型

第十个参数 B02K_MAC 承载银行计算出的签名，它本身不参与签名计算。

每个参数必须恰好出现一次且带有非空的值，缺失、重复或没有值的报文都是不合法的。
报文字段之外的参数被忽略。

历史上银行侧常以 ISO-8859-1 编码发送客户姓名。解码报文时非法的 UTF-8 字节不会导致失败，
每个非法字节会被替换为一个 U+FFFD ，使这类报文总能以确定的方式解码和校验。

# 签名算法

字符集统一使用 UTF-8 。将九个报文字段按顺序排列，每个字段后跟一个“&”，再拼上入站密钥和收尾的“&”，得到待签名串：

	VERS&TIMESTMP&IDNBR&STAMP&CUSTNAME&KEYVERS&ALG&CUSTID&CUSTTYPE&secret&

字段使用解码后的原文。对待签名串计算 SHA-256 ，取大写的 HEX 格式，即为签名，与 B02K_MAC 参数的值比较：
一致则认证结果可信，不一致则报文不可信。

# 跳转地址

校验完成后，商户需要让浏览器跳转到一个结果页面：

  - 签名不一致时，跳转到预先配置的错误地址；
  - 签名一致时，跳转到携带客户姓名和校验串的成功地址：

    ?firstname=<First>&lastname=<Last>&hash=<hash>

姓名的格式化方式：将 B02K_CUSTNAME 按词做首字母大写处理，再按第一个空格拆分，
空格前是名（ firstname ），其余全部是姓（ lastname ），没有空格时姓为空字符串。

hash 用于结果页面校验姓名未被篡改，其待签名串为：

	firstname=<First>&lastname=<Last>#<secret>

其中姓名取格式化后的原文（不做 URL 编码）， secret 是出站密钥，与入站密钥相互独立。
对待签名串计算 SHA-256 ，取小写的 HEX 格式。注意大小写与入站签名相反。

# 例子

入站密钥为 inputsecret ，出站密钥为 outputsecret ，回调 URL 为：

	https://shop.example.org/auth?B02K_VERS=0003&B02K_TIMESTMP=50020181017141433899056&B02K_IDNBR=2512408990&B02K_STAMP=20010125140015123456&B02K_CUSTNAME=FIRST%20LAST&B02K_KEYVERS=0001&B02K_ALG=03&B02K_CUSTID=9984&B02K_CUSTTYPE=02&B02K_MAC=EBA959A76B87AE8996849E7C0C08D4AC44B053183BE12C0DAC2AD0C86F9F2542

校验入站签名的步骤：
 1. 解析 query string ，得到九个报文字段，其中 B02K_CUSTNAME 解码后为“FIRST LAST”。
 2. 拼接待签名串，得到： "0003&50020181017141433899056&2512408990&20010125140015123456&FIRST LAST&0001&03&9984&02&inputsecret&" 。
 3. 计算 SHA-256 并转为大写，得到： EBA959A76B87AE8996849E7C0C08D4AC44B053183BE12C0DAC2AD0C86F9F2542 。
 4. 与 B02K_MAC 参数的值比较，两者一致，报文可信。

构建成功跳转地址：
 1. 格式化姓名，“FIRST LAST”得到名“First”和姓“Last”。
 2. 拼接出站待签名串，得到： "firstname=First&lastname=Last#outputsecret" 。
 3. 计算 SHA-256 取小写，得到： 4f6536ca2a23592d9037a4707bb44980b9bd2d4250fc1c833812068ccb000712 。
 4. 拼接跳转地址，得到： ?firstname=First&lastname=Last&hash=4f6536ca2a23592d9037a4707bb44980b9bd2d4250fc1c833812068ccb000712

对应的代码：

	redirect, err := b02k.GetRedirectUrl(callbackUrl, "inputsecret", "outputsecret", "/error/")
	// redirect == "?firstname=First&lastname=Last&hash=4f6536ca2a23592d9037a4707bb44980b9bd2d4250fc1c833812068ccb000712"

若签名不一致， redirect 为“/error/”且 err 为 nil ：签名不匹配是协议内的正常分支，不作为错误返回。
*/
package b02k
