package appserver

import "html/template"

// PageData fills the main page
type PageData struct {
	InstanceID       string
	InstanceType     string
	PrivateIP        string
	AvailabilityZone string
	ClientIP         string
	UserAgent        string
	Browser          string
	OS               string
	Timestamp        string
	LoadBalancer     string
}

var mainPage = template.Must(template.New("main").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Three-Tier Application - Application Tier</title>
    <style>
        * { margin: 0; padding: 0; box-sizing: border-box; }
        body { font-family: 'Segoe UI', Tahoma, Geneva, Verdana, sans-serif; background: linear-gradient(135deg, #667eea 0%, #764ba2 100%); min-height: 100vh; padding: 20px; }
        .container { max-width: 1200px; margin: 0 auto; }
        .header { background: rgba(255, 255, 255, 0.1); border-radius: 20px; padding: 30px; text-align: center; margin-bottom: 30px; border: 1px solid rgba(255, 255, 255, 0.18); }
        .header h1 { color: white; font-size: 2.5rem; margin-bottom: 10px; }
        .header p { color: rgba(255, 255, 255, 0.9); font-size: 1.1rem; }
        .info-grid { display: grid; grid-template-columns: repeat(auto-fit, minmax(300px, 1fr)); gap: 20px; margin-bottom: 30px; }
        .info-card, .api-section { background: white; border-radius: 15px; padding: 25px; box-shadow: 0 10px 30px rgba(0, 0, 0, 0.1); }
        .info-card h3 { color: #2c3e50; margin-bottom: 15px; border-bottom: 2px solid #3498db; padding-bottom: 10px; }
        .info-item { display: flex; justify-content: space-between; padding: 8px 0; border-bottom: 1px solid #ecf0f1; }
        .info-item:last-child { border-bottom: none; }
        .label { font-weight: bold; color: #34495e; }
        .value { color: #7f8c8d; }
        .api-button { background: #3498db; color: white; border: none; padding: 12px 25px; border-radius: 25px; cursor: pointer; margin: 5px; font-weight: bold; }
        .response-area { background: #f8f9fa; border-radius: 10px; padding: 20px; margin-top: 15px; min-height: 100px; white-space: pre-wrap; font-family: 'Courier New', monospace; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h1>Application Tier - EC2 Instance</h1>
            <p>You are connected to an EC2 instance in the application tier</p>
        </div>
        <div class="info-grid">
            <div class="info-card">
                <h3>Instance Information</h3>
                <div class="info-item"><span class="label">Instance ID:</span><span class="value">{{.InstanceID}}</span></div>
                <div class="info-item"><span class="label">Instance Type:</span><span class="value">{{.InstanceType}}</span></div>
                <div class="info-item"><span class="label">Private IP:</span><span class="value">{{.PrivateIP}}</span></div>
                <div class="info-item"><span class="label">Availability Zone:</span><span class="value">{{.AvailabilityZone}}</span></div>
            </div>
            <div class="info-card">
                <h3>Request Information</h3>
                <div class="info-item"><span class="label">Client IP:</span><span class="value">{{.ClientIP}}</span></div>
                <div class="info-item"><span class="label">User Agent:</span><span class="value">{{.UserAgent}}</span></div>
                <div class="info-item"><span class="label">Browser:</span><span class="value">{{.Browser}} ({{.OS}})</span></div>
                <div class="info-item"><span class="label">Timestamp:</span><span class="value" id="timestamp">{{.Timestamp}}</span></div>
                <div class="info-item"><span class="label">Load Balancer:</span><span class="value">{{.LoadBalancer}}</span></div>
            </div>
        </div>
        <div class="api-section">
            <h3>API Endpoints</h3>
            <p>Test the application tier APIs:</p>
            <button class="api-button" onclick="callAPI('/api/info')">Instance Info</button>
            <button class="api-button" onclick="callAPI('/api/database')">Database Status</button>
            <button class="api-button" onclick="callAPI('/health')">Health Check</button>
            <div id="api-response" class="response-area">Click a button to test API endpoints...</div>
        </div>
    </div>
    <script>
        async function callAPI(endpoint) {
            const responseArea = document.getElementById('api-response');
            responseArea.textContent = 'Loading...';
            try {
                const response = await fetch(endpoint);
                const data = await response.text();
                responseArea.textContent = 'Response from ' + endpoint + ':\n\n' + data;
            } catch (error) {
                responseArea.textContent = 'Error calling ' + endpoint + ':\n\n' + error.message;
            }
        }
        setInterval(() => {
            document.getElementById('timestamp').textContent = new Date().toISOString().replace('T', ' ').replace('Z', ' UTC');
        }, 30000);
    </script>
</body>
</html>
`))
